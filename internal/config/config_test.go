package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "LOG_LEVEL", "HTTP_ADDR",
		"SQLITE_DRIVER", "SQLITE_DSN", "SQLITE_PATH",
		"SQLITE_MAX_OPEN_CONNS", "SQLITE_MAX_IDLE_CONNS", "SQLITE_CONN_MAX_LIFETIME", "SQLITE_LOG_QUERIES",
		"RIVER_API_URL", "WEATHER_API_URL", "ROUTING_API_URL",
		"UPSTREAM_CONNECT_TIMEOUT", "UPSTREAM_READ_TIMEOUT",
		"MQTT_ENABLED", "MQTT_BROKER", "MQTT_PORT", "MQTT_CLIENT_ID", "MQTT_LOCATION_TOPIC", "MQTT_TOPIC_PREFIX",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_ALERT_CHAT_IDS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}

	if got.AppEnv != "dev" {
		t.Errorf("AppEnv = %q, want %q", got.AppEnv, "dev")
	}
	if got.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, slog.LevelInfo)
	}
	if got.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", got.HTTPAddr, ":8080")
	}
	if got.SQLiteDriver != "sqlite3" {
		t.Errorf("SQLiteDriver = %q, want sqlite3", got.SQLiteDriver)
	}
	if got.RiverAPIURL != DefaultRiverAPIURL {
		t.Errorf("RiverAPIURL = %q, want %q", got.RiverAPIURL, DefaultRiverAPIURL)
	}
	if got.WeatherAPIURL != DefaultWeatherAPIURL {
		t.Errorf("WeatherAPIURL = %q, want %q", got.WeatherAPIURL, DefaultWeatherAPIURL)
	}
	if got.UpstreamConnectTimeout != 15*time.Second || got.UpstreamReadTimeout != 15*time.Second {
		t.Errorf("upstream timeouts = %v/%v, want 15s/15s", got.UpstreamConnectTimeout, got.UpstreamReadTimeout)
	}
	if !got.MQTTEnabled || got.MQTTPort != 1883 {
		t.Errorf("MQTT = enabled %v port %d, want true 1883", got.MQTTEnabled, got.MQTTPort)
	}
	if got.MQTTLocationTopic != "floodalert/devices/+/location" {
		t.Errorf("MQTTLocationTopic = %q", got.MQTTLocationTopic)
	}
	if got.TelegramBotToken != "" || len(got.TelegramAlertChatIDs) != 0 {
		t.Errorf("telegram = %q %v, want disabled", got.TelegramBotToken, got.TelegramAlertChatIDs)
	}
}

func TestLoadFromEnv_AppEnv_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		appEnv string
	}{
		{name: "staging", appEnv: "staging"},
		{name: "uppercase", appEnv: "DEV"},
		{name: "random", appEnv: "whatever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("APP_ENV", tt.appEnv)

			_, err := LoadFromEnv()
			if err == nil {
				t.Fatalf("LoadFromEnv() error = nil, want non-nil")
			}
		})
	}
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "log level", key: "LOG_LEVEL", val: "loud"},
		{name: "max open conns", key: "SQLITE_MAX_OPEN_CONNS", val: "many"},
		{name: "conn lifetime", key: "SQLITE_CONN_MAX_LIFETIME", val: "forever"},
		{name: "log queries", key: "SQLITE_LOG_QUERIES", val: "sometimes"},
		{name: "connect timeout", key: "UPSTREAM_CONNECT_TIMEOUT", val: "15"},
		{name: "negative read timeout", key: "UPSTREAM_READ_TIMEOUT", val: "-1s"},
		{name: "mqtt port text", key: "MQTT_PORT", val: "abc"},
		{name: "mqtt port range", key: "MQTT_PORT", val: "70000"},
		{name: "mqtt enabled", key: "MQTT_ENABLED", val: "yes please"},
		{name: "chat ids", key: "TELEGRAM_ALERT_CHAT_IDS", val: "12,abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			if _, err := LoadFromEnv(); err == nil {
				t.Fatalf("LoadFromEnv() with %s=%q error = nil, want non-nil", tt.key, tt.val)
			}
		})
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", "  :9090  ")
	t.Setenv("SQLITE_LOG_QUERIES", "true")
	t.Setenv("UPSTREAM_READ_TIMEOUT", "3s")
	t.Setenv("MQTT_ENABLED", "false")
	t.Setenv("TELEGRAM_ALERT_CHAT_IDS", " 42, -1001 ,")
	t.Setenv("WATCH_SCHEDULE", "*/15 * * * *")

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}
	if got.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want :9090", got.HTTPAddr)
	}
	if !got.SQLiteLogQueries {
		t.Error("SQLiteLogQueries = false, want true")
	}
	if got.UpstreamReadTimeout != 3*time.Second {
		t.Errorf("UpstreamReadTimeout = %v, want 3s", got.UpstreamReadTimeout)
	}
	if got.MQTTEnabled {
		t.Error("MQTTEnabled = true, want false")
	}
	if len(got.TelegramAlertChatIDs) != 2 || got.TelegramAlertChatIDs[0] != 42 || got.TelegramAlertChatIDs[1] != -1001 {
		t.Errorf("TelegramAlertChatIDs = %v, want [42 -1001]", got.TelegramAlertChatIDs)
	}
	if got.WatchSchedule != "*/15 * * * *" {
		t.Errorf("WatchSchedule = %q", got.WatchSchedule)
	}
}

func TestLoadFromEnv_WatchSchedule(t *testing.T) {
	t.Run("empty disables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("WATCH_SCHEDULE", "")

		got, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("LoadFromEnv() error = %v", err)
		}
		if got.WatchSchedule != "" {
			t.Errorf("WatchSchedule = %q, want empty", got.WatchSchedule)
		}
	})

	t.Run("invalid schedule rejected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("WATCH_SCHEDULE", "every hour")

		if _, err := LoadFromEnv(); err == nil || !strings.Contains(err.Error(), "WATCH_SCHEDULE") {
			t.Fatalf("LoadFromEnv() error = %v, want WATCH_SCHEDULE error", err)
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "DeBuG", want: slog.LevelDebug},
		{in: "  warn \n", want: slog.LevelWarn},
		{in: "", want: slog.LevelInfo, wantErr: true},
		{in: "warns", want: slog.LevelInfo, wantErr: true},
		{in: "1", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
