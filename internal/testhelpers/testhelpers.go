// Package testhelpers provides shared test fixtures.
package testhelpers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/goliatone/go-formkit/internal/database"
)

// NewTestDB returns an in-memory SQLite database migrated to the current
// schema, configured the same way as production. It is closed automatically
// when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}
