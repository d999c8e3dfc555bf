// Package postgres contains the PostgreSQL implementations of the store
// interfaces. Queries are composed with squirrel using dollar placeholders
// and executed through store.DBTX, so every store works identically on a
// live connection and inside a transaction. Database errors are translated
// to store sentinel errors by MapError.
package postgres
