package db

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"floodalert/internal/config"
)

func TestBuildDSN(t *testing.T) {
	t.Run("explicit DSN wins", func(t *testing.T) {
		got, err := buildDSN(config.Config{SQLiteDSN: "file::memory:?cache=shared", SQLitePath: "ignored.db"})
		if err != nil {
			t.Fatalf("buildDSN: %v", err)
		}
		if got != "file::memory:?cache=shared" {
			t.Errorf("dsn = %q", got)
		}
	})

	t.Run("plain path gets pragmas and directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "app.db")
		got, err := buildDSN(config.Config{SQLitePath: path})
		if err != nil {
			t.Fatalf("buildDSN: %v", err)
		}
		if !strings.HasPrefix(got, "file:"+path+"?") {
			t.Errorf("dsn = %q; want file: prefix with path", got)
		}
		for _, p := range []string{"_foreign_keys=on", "_busy_timeout=5000", "_journal_mode=WAL", "_txlock=immediate"} {
			if !strings.Contains(got, p) {
				t.Errorf("dsn = %q; missing %s", got, p)
			}
		}
	})

	t.Run("file URI with query appends with ampersand", func(t *testing.T) {
		got, err := buildDSN(config.Config{SQLitePath: "file:app.db?mode=rwc"})
		if err != nil {
			t.Fatalf("buildDSN: %v", err)
		}
		if !strings.HasPrefix(got, "file:app.db?mode=rwc&_foreign_keys=on") {
			t.Errorf("dsn = %q", got)
		}
	})
}

func TestOpen(t *testing.T) {
	for _, logQueries := range []bool{false, true} {
		name := "plain"
		if logQueries {
			name = "logging connector"
		}
		t.Run(name, func(t *testing.T) {
			cfg := config.Config{
				SQLiteDriver:       "sqlite3",
				SQLitePath:         filepath.Join(t.TempDir(), "app.db"),
				SQLiteMaxOpenConns: 1,
				SQLiteMaxIdleConns: 1,
				SQLiteLogQueries:   logQueries,
			}
			db, err := Open(cfg)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer func() {
				if err := Close(db); err != nil {
					t.Errorf("Close: %v", err)
				}
			}()

			if err := Check(context.Background(), db); err != nil {
				t.Fatalf("Check: %v", err)
			}
		})
	}
}

func TestCheck_closed(t *testing.T) {
	db, err := Open(config.Config{SQLiteDriver: "sqlite3", SQLitePath: filepath.Join(t.TempDir(), "app.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = Close(db)

	if err := Check(context.Background(), db); !errors.Is(err, ErrUnhealthy) {
		t.Errorf("Check on closed db = %v; want ErrUnhealthy", err)
	}
}

func TestClose_nil(t *testing.T) {
	if err := Close(nil); err != nil {
		t.Errorf("Close(nil) = %v; want nil", err)
	}
}
