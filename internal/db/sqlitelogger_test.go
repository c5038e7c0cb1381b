package db

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"testing"
)

// captureHandler records log records for assertion in tests.
type captureHandler struct {
	mu    sync.Mutex
	attrs []map[string]slog.Value
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := map[string]slog.Value{"msg": slog.StringValue(r.Message)}
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value
		return true
	})
	h.attrs = append(h.attrs, m)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) last(t *testing.T, msg string) map[string]slog.Value {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.attrs) - 1; i >= 0; i-- {
		if h.attrs[i]["msg"].String() == msg {
			return h.attrs[i]
		}
	}
	t.Fatalf("no %q record captured", msg)
	return nil
}

func (h *captureHandler) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attrs = nil
}

func openLogged(t *testing.T) (*sql.DB, *captureHandler) {
	t.Helper()
	handler := &captureHandler{}
	connector, err := NewLoggingConnector(":memory:", slog.New(handler))
	if err != nil {
		t.Fatalf("NewLoggingConnector: %v", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db, handler
}

func TestNewLoggingConnector(t *testing.T) {
	t.Run("nil logger uses default", func(t *testing.T) {
		conn, err := NewLoggingConnector(":memory:", nil)
		if err != nil {
			t.Fatalf("NewLoggingConnector: %v", err)
		}
		if conn.(*loggingConnector).logger != slog.Default() {
			t.Error("logger is not slog.Default()")
		}
	})

	t.Run("empty dsn rejected", func(t *testing.T) {
		if _, err := NewLoggingConnector("", nil); err == nil {
			t.Fatal("NewLoggingConnector(\"\") error = nil; want error")
		}
	})
}

func TestLoggingConnector_logsStatements(t *testing.T) {
	db, handler := openLogged(t)

	if _, err := db.Exec(`CREATE TABLE t (id INTEGER, name TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	got := handler.last(t, "sql")
	if got["op"].String() != "exec" {
		t.Errorf("op = %q; want exec", got["op"].String())
	}
	if got["sql"].String() != `CREATE TABLE t (id INTEGER, name TEXT)` {
		t.Errorf("sql = %q", got["sql"].String())
	}
	if _, ok := got["duration_ms"]; !ok {
		t.Error("missing duration_ms attribute")
	}

	handler.reset()
	if _, err := db.Exec(`INSERT INTO t (id, name) VALUES (?, ?)`, 1, nil); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got = handler.last(t, "sql")
	args, ok := got["args"].Any().([]string)
	if !ok || len(args) != 2 || args[0] != "1" || args[1] != "NULL" {
		t.Errorf("args = %#v; want [1 NULL]", got["args"].Any())
	}

	handler.reset()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n); err != nil {
		t.Fatalf("query: %v", err)
	}
	got = handler.last(t, "sql")
	if got["op"].String() != "query" {
		t.Errorf("op = %q; want query", got["op"].String())
	}
	if n != 1 {
		t.Errorf("count = %d; want 1", n)
	}
}

func TestLoggingConnector_logsFailures(t *testing.T) {
	db, handler := openLogged(t)

	if _, err := db.Exec(`INSERT INTO missing (id) VALUES (1)`); err == nil {
		t.Fatal("insert into missing table succeeded")
	}
	got := handler.last(t, "sql")
	if got["op"].String() != "prepare" {
		t.Errorf("op = %q; want prepare", got["op"].String())
	}
	if _, ok := got["error"]; !ok {
		t.Error("missing error attribute")
	}
}

func TestLoggingConnector_transactionAndPing(t *testing.T) {
	db, _ := openLogged(t)

	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := tx.Exec(`CREATE TABLE t (id INTEGER)`); err != nil {
		t.Fatalf("exec in tx: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}
