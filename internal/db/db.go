// Package db opens the sqlite database that holds contacts, flood zones and
// the watch list.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"floodalert/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

// dsnParams apply to every connection. Writers take the lock up front so the
// server and floodctl can share one file without SQLITE_BUSY upgrades.
var dsnParams = []string{
	"_foreign_keys=on",
	"_busy_timeout=5000",
	"_journal_mode=WAL",
	"_txlock=immediate",
}

var ErrUnhealthy = errors.New("database unhealthy")

// Open returns a pooled, pinged handle. With SQLiteLogQueries set,
// statements go through the logging connector.
func Open(cfg config.Config) (*sql.DB, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}
	conn, err := connect(cfg, dsn)
	if err != nil {
		return nil, err
	}
	tunePool(conn, cfg)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	slog.Debug("database opened", "driver", cfg.SQLiteDriver, "log_queries", cfg.SQLiteLogQueries)
	return conn, nil
}

func connect(cfg config.Config, dsn string) (*sql.DB, error) {
	if !cfg.SQLiteLogQueries {
		conn, err := sql.Open(cfg.SQLiteDriver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
		return conn, nil
	}
	connector, err := NewLoggingConnector(dsn, slog.Default().With("component", "sqlite"))
	if err != nil {
		return nil, fmt.Errorf("db connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}

func tunePool(conn *sql.DB, cfg config.Config) {
	if cfg.SQLiteMaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.SQLiteMaxOpenConns)
	}
	if cfg.SQLiteMaxIdleConns >= 0 {
		conn.SetMaxIdleConns(cfg.SQLiteMaxIdleConns)
	}
	if cfg.SQLiteConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.SQLiteConnMaxLifetime)
	}
}

// Check runs a trivial query; used at startup and by /healthz.
func Check(ctx context.Context, conn *sql.DB) error {
	var one int
	if err := conn.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("%w: %v", ErrUnhealthy, err)
	}
	if one != 1 {
		return fmt.Errorf("%w: SELECT 1 returned %d", ErrUnhealthy, one)
	}
	return nil
}

func Close(conn *sql.DB) error {
	if conn == nil {
		return nil
	}
	return conn.Close()
}

// buildDSN turns SQLitePath into a file: URI with dsnParams, creating the
// parent directory. An explicit SQLiteDSN is used untouched.
func buildDSN(cfg config.Config) (string, error) {
	if cfg.SQLiteDSN != "" {
		return cfg.SQLiteDSN, nil
	}

	path := cfg.SQLitePath
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(dsnParams, "&"), nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return "file:" + path + "?" + strings.Join(dsnParams, "&"), nil
}
