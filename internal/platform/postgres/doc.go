// Package postgres provides PostgreSQL implementations of the store
// interfaces. Each store accepts a store.DBTX so it can run against either a
// connection pool or a transaction, and maps database errors onto the store
// package's sentinel errors.
package postgres
