// Package mocks provides in-memory implementations of the store
// interfaces plus a pass-through Transactor, used by service and API
// tests to exercise business logic without a database.
package mocks
