package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	DefaultRiverAPIURL   = "https://flood-api.open-meteo.com/v1/flood"
	DefaultWeatherAPIURL = "https://api.open-meteo.com/v1/forecast"
	DefaultRoutingAPIURL = "https://router.project-osrm.org"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	SQLiteDriver          string
	SQLiteDSN             string
	SQLitePath            string
	SQLiteMaxOpenConns    int
	SQLiteMaxIdleConns    int
	SQLiteConnMaxLifetime time.Duration
	// SQLiteLogQueries routes every statement through the logging connector at debug level.
	SQLiteLogQueries bool

	RiverAPIURL            string
	WeatherAPIURL          string
	RoutingAPIURL          string
	UpstreamConnectTimeout time.Duration
	UpstreamReadTimeout    time.Duration

	MQTTEnabled       bool
	MQTTBroker        string
	MQTTPort          int
	MQTTClientID      string
	MQTTLocationTopic string
	MQTTTopicPrefix   string

	// WatchSchedule is a standard five-field cron expression; empty disables the watch list job.
	WatchSchedule string

	TelegramBotToken     string
	TelegramAlertChatIDs []int64
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	maxOpenConns, err := envInt("SQLITE_MAX_OPEN_CONNS", 1)
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := envInt("SQLITE_MAX_IDLE_CONNS", 1)
	if err != nil {
		return Config{}, err
	}
	connMaxLifetime, err := envDuration("SQLITE_CONN_MAX_LIFETIME", 0)
	if err != nil {
		return Config{}, err
	}
	logQueries, err := envBool("SQLITE_LOG_QUERIES", false)
	if err != nil {
		return Config{}, err
	}

	connectTimeout, err := envDuration("UPSTREAM_CONNECT_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	readTimeout, err := envDuration("UPSTREAM_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}

	mqttEnabled, err := envBool("MQTT_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	mqttPort, err := envInt("MQTT_PORT", 1883)
	if err != nil {
		return Config{}, err
	}
	if mqttPort <= 0 || mqttPort > 65535 {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %d (must be 1-65535)", mqttPort)
	}

	chatIDs, err := parseChatIDs(os.Getenv("TELEGRAM_ALERT_CHAT_IDS"))
	if err != nil {
		return Config{}, err
	}

	watchSchedule, ok := os.LookupEnv("WATCH_SCHEDULE")
	if !ok {
		watchSchedule = "0 * * * *"
	}
	watchSchedule = strings.TrimSpace(watchSchedule)
	if watchSchedule != "" {
		if _, err := cron.ParseStandard(watchSchedule); err != nil {
			return Config{}, fmt.Errorf("invalid WATCH_SCHEDULE %q: %w", watchSchedule, err)
		}
	}

	return Config{
		AppEnv:   appEnv,
		LogLevel: level,
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),

		SQLiteDriver:          envOr("SQLITE_DRIVER", "sqlite3"),
		SQLiteDSN:             strings.TrimSpace(os.Getenv("SQLITE_DSN")),
		SQLitePath:            envOr("SQLITE_PATH", "data/floodalert.db"),
		SQLiteMaxOpenConns:    maxOpenConns,
		SQLiteMaxIdleConns:    maxIdleConns,
		SQLiteConnMaxLifetime: connMaxLifetime,
		SQLiteLogQueries:      logQueries,

		RiverAPIURL:            envOr("RIVER_API_URL", DefaultRiverAPIURL),
		WeatherAPIURL:          envOr("WEATHER_API_URL", DefaultWeatherAPIURL),
		RoutingAPIURL:          envOr("ROUTING_API_URL", DefaultRoutingAPIURL),
		UpstreamConnectTimeout: connectTimeout,
		UpstreamReadTimeout:    readTimeout,

		MQTTEnabled:       mqttEnabled,
		MQTTBroker:        envOr("MQTT_BROKER", "localhost"),
		MQTTPort:          mqttPort,
		MQTTClientID:      envOr("MQTT_CLIENT_ID", "floodalert-server"),
		MQTTLocationTopic: envOr("MQTT_LOCATION_TOPIC", "floodalert/devices/+/location"),
		MQTTTopicPrefix:   envOr("MQTT_TOPIC_PREFIX", "floodalert"),

		WatchSchedule: strings.TrimSpace(watchSchedule),

		TelegramBotToken:     strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		TelegramAlertChatIDs: chatIDs,
	}, nil
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, s)
	}
	return d, nil
}

func envBool(key string, def bool) (bool, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return b, nil
}

func parseChatIDs(s string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALERT_CHAT_IDS entry %q: %w", part, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
