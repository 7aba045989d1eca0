// Package task implements the background job processing system. Jobs are
// persisted before execution so they survive restarts, processed by a pool
// of worker goroutines, and periodically swept for stuck entries. The
// package also schedules the recurring daily summary job.
package task
