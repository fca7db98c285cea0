package db_test

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/dvstream/catalog/internal/db"
	"github.com/dvstream/catalog/internal/testutil"
)

func TestForeignKeyCascadeDelete(t *testing.T) {
	// Setup test database with migrations already applied
	database := testutil.SetupTestDB(t)

	// Test 1: Verify foreign keys are enabled
	var foreignKeysEnabled int
	err := database.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeysEnabled)
	if err != nil {
		t.Fatalf("Failed to check foreign keys status: %v", err)
	}
	if foreignKeysEnabled != 1 {
		t.Errorf("Foreign keys should be enabled, got: %d", foreignKeysEnabled)
	}

	// Test 2: Create a series with an episode and a genre, then delete it
	_, err = database.Exec("INSERT INTO series (id, title, created_at, updated_at) VALUES ('s1', 'Show', datetime('now'), datetime('now'))")
	if err != nil {
		t.Fatalf("Failed to create test series: %v", err)
	}
	_, err = database.Exec("INSERT INTO episodes (id, series_id, position, title) VALUES ('e1', 's1', 1, 'Pilot')")
	if err != nil {
		t.Fatalf("Failed to create test episode: %v", err)
	}
	_, err = database.Exec("INSERT INTO genres (name) VALUES ('Drama')")
	if err != nil {
		t.Fatalf("Failed to create test genre: %v", err)
	}
	_, err = database.Exec("INSERT INTO series_genres (series_id, genre_id, position) VALUES ('s1', 1, 0)")
	if err != nil {
		t.Fatalf("Failed to link test genre: %v", err)
	}

	if _, err := database.Exec("DELETE FROM series WHERE id = 's1'"); err != nil {
		t.Fatalf("Failed to delete series: %v", err)
	}

	for _, table := range []string{"episodes", "series_genres"} {
		var count int
		if err := database.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Fatalf("Failed to count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("Expected %s to be cascade deleted, found %d rows", table, count)
		}
	}

	// The genre row itself survives; pruning is a separate job.
	var genres int
	database.QueryRow("SELECT COUNT(*) FROM genres").Scan(&genres)
	if genres != 1 {
		t.Errorf("Expected genre row to remain, found %d", genres)
	}
}

func TestSettingsSingleton(t *testing.T) {
	database := testutil.SetupTestDB(t)

	_, err := database.Exec("INSERT INTO settings (key, updated_at) VALUES ('other', datetime('now'))")
	if err == nil {
		t.Fatal("Expected a second settings key to be rejected")
	}
}

func TestRunMigrationsTwice(t *testing.T) {
	database := testutil.SetupTestDB(t)
	if err := db.RunMigrations(database, zerolog.Nop()); err != nil {
		t.Fatalf("Re-running migrations should be a no-op, got: %v", err)
	}
}
