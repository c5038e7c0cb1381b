package repository

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"floodalert/internal/migrate"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// One connection so every query sees the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	if err := migrate.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestListFloodZones_Seeded(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	zones, err := repo.ListFloodZones(context.Background())
	if err != nil {
		t.Fatalf("ListFloodZones: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("ListFloodZones: got %d zones, want 2", len(zones))
	}
	z := zones[0]
	if z.North != 19.025 || z.East != 72.85 || z.South != 19.015 || z.West != 72.84 {
		t.Errorf("zones[0] = %+v", z)
	}
}

func TestListSafeZones_Seeded(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	zones, err := repo.ListSafeZones(context.Background())
	if err != nil {
		t.Fatalf("ListSafeZones: %v", err)
	}
	if len(zones) != 3 {
		t.Fatalf("ListSafeZones: got %d zones, want 3", len(zones))
	}
	if zones[0].Coordinate.Latitude != 19.0176 || zones[0].Coordinate.Longitude != 72.8562 {
		t.Errorf("zones[0] = %+v", zones[0])
	}
}

func TestList_NoSchema(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewRepository(db)
	if _, err := repo.ListFloodZones(context.Background()); err == nil {
		t.Error("ListFloodZones without table: want error")
	}
	if _, err := repo.ListSafeZones(context.Background()); err == nil {
		t.Error("ListSafeZones without table: want error")
	}
}
