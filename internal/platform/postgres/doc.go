// Package postgres provides the PostgreSQL implementation of
// store.CardStateStore, the embedded schema migrations it needs, and the
// mapping of PostgreSQL errors to store errors.
//
// The database/sql pool is opened with the pgx stdlib driver ("pgx").
package postgres
