// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"floodalert/internal/config"
)

// New builds the process logger: colored console output for dev builds,
// JSON with app, version and env attributes otherwise.
func New(cfg config.Config, version string, appName string) *slog.Logger {
	return newWithWriter(os.Stdout, cfg, version, appName)
}

func newWithWriter(w io.Writer, cfg config.Config, version string, appName string) *slog.Logger {
	if version == "dev" {
		return slog.New(consoleHandler(w, cfg.LogLevel)).With("app", appName)
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel})
	return slog.New(h).With("app", appName, "version", version, "env", cfg.AppEnv)
}

func consoleHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		AddSource:  true,
		TimeFormat: time.Kitchen,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			// Highlight errors so failed fetches stand out in the console.
			if a.Value.Kind() != slog.KindAny {
				return a
			}
			if err, ok := a.Value.Any().(error); ok {
				colored := tint.Err(err)
				colored.Key = a.Key
				return colored
			}
			return a
		},
	})
}

// Component returns the default logger tagged with a component name.
func Component(name string) *slog.Logger {
	return slog.Default().With("component", name)
}
