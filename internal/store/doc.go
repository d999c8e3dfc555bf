// Package store defines the persistence interfaces for the scheduler:
// cards, folders, vocabulary items, review logs, and streak state.
// Implementations live under platform/postgres; services depend only on
// these interfaces. Stores expose WithTx so a service can bind several
// operations into one transaction via RunInTransaction.
package store
