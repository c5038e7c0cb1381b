package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"floodalert/internal/config"
)

func TestNew_releaseEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}, "1.2.3", "floodalert")

	logger.Info("hello", "k", "v")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	for key, want := range map[string]string{"msg": "hello", "app": "floodalert", "version": "1.2.3", "env": "prod", "k": "v"} {
		if rec[key] != want {
			t.Errorf("%s = %v; want %q", key, rec[key], want)
		}
	}
}

func TestNew_respectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, config.Config{AppEnv: "prod", LogLevel: slog.LevelWarn}, "1.0.0", "floodalert")

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info record written at warn level: %q", buf.String())
	}
}

func TestNew_devUsesConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, config.Config{AppEnv: "dev", LogLevel: slog.LevelDebug}, "dev", "floodalert")

	logger.Debug("console line")

	out := buf.String()
	if !strings.Contains(out, "console line") {
		t.Errorf("output = %q; want message", out)
	}
	if json.Valid(buf.Bytes()) {
		t.Errorf("dev output should not be JSON: %q", out)
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	Component("mqtt").Info("connected")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["component"] != "mqtt" {
		t.Errorf("component = %v; want mqtt", rec["component"])
	}
}
