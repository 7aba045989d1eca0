// Package store defines the persistence interfaces consumed by the service
// layer, the shared sentinel errors, and the transaction helper. Concrete
// implementations live under platform/postgres.
package store
