//go:build integration

// Package testdb provides utilities for tests that run against a real
// PostgreSQL database.
//
// Tests are skipped unless HANZI_TEST_DATABASE_URL is set. GetTestDBWithT
// connects, applies the embedded migrations and registers cleanup;
// ResetCardStates empties the card_states table between tests.
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.ResetCardStates(t, db)
//
//	    s := postgres.NewPostgresCardStateStore(db, slog.Default())
//	    ...
//	}
//
// Tests sharing the database must not run in parallel, because they share
// the card_states table.
package testdb
