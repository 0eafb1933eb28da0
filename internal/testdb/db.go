//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/hanzi-strokes/internal/platform/logger"
	"github.com/phrazzld/hanzi-strokes/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// DatabaseURLEnv names the environment variable holding the test database URL.
const DatabaseURLEnv = "HANZI_TEST_DATABASE_URL"

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 10 * time.Second

// GetTestDatabaseURL returns the database URL for tests, or "" when none is set.
func GetTestDatabaseURL() string {
	return os.Getenv(DatabaseURLEnv)
}

// ShouldSkipDatabaseTest reports whether database tests should be skipped
// because no test database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}

// GetTestDBWithT returns a migrated database connection that is closed when
// the test completes. It skips the test if no test database is configured.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip(DatabaseURLEnv + " not set - skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	log, _ := logger.NewTestLogger(t)

	db, err := postgres.Open(ctx, dbURL, 4)
	require.NoError(t, err, "Failed to open database connection")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})

	require.NoError(t, postgres.Migrate(ctx, db, log), "Failed to run migrations")
	return db
}

// ResetCardStates deletes every stored card state.
func ResetCardStates(t *testing.T, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	_, err := db.ExecContext(ctx, `DELETE FROM card_states`)
	require.NoError(t, err, "Failed to reset card_states")
}
