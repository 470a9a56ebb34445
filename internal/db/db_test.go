package db_test

import (
	"testing"

	"github.com/isayev/coinstack-sub001/internal/db"
	"github.com/isayev/coinstack-sub001/internal/testutil"
	"go.uber.org/zap"
)

func TestMigrationsCreateViewStateTable(t *testing.T) {
	// Setup test database with migrations already applied
	database := testutil.SetupTestDB(t)

	_, err := database.Exec("INSERT INTO view_state (key, version, data) VALUES (?, ?, ?)", "filters", 0, []byte("{}"))
	if err != nil {
		t.Fatalf("Failed to insert into view_state: %v", err)
	}

	var version int
	var data []byte
	err = database.QueryRow("SELECT version, data FROM view_state WHERE key = ?", "filters").Scan(&version, &data)
	if err != nil {
		t.Fatalf("Failed to read back view_state row: %v", err)
	}
	if version != 0 || string(data) != "{}" {
		t.Errorf("Unexpected row contents: version=%d data=%q", version, data)
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	database := testutil.SetupTestDB(t)

	// Applying the same migrations a second time must report no change, not fail.
	if err := db.RunMigrations(database, zap.NewNop()); err != nil {
		t.Fatalf("Second RunMigrations failed: %v", err)
	}
}
