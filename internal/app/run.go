package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"floodalert/internal/config"
	db "floodalert/internal/db"
	"floodalert/internal/geo"
	"floodalert/internal/logging"
	httpapi "floodalert/internal/httpapi"
	"floodalert/internal/migrate"
	"floodalert/internal/modules/contacts"
	"floodalert/internal/modules/risk"
	riskclient "floodalert/internal/modules/risk/client"
	riskservice "floodalert/internal/modules/risk/service"
	riskviews "floodalert/internal/modules/risk/views"
	"floodalert/internal/modules/tips"
	"floodalert/internal/modules/watch"
	watchservice "floodalert/internal/modules/watch/service"
	"floodalert/internal/modules/zones"
	"floodalert/internal/modules/zones/routing"
	"floodalert/internal/mqtt"
	"floodalert/internal/telegram"
	"floodalert/internal/upstream"
)

const (
	userAgent = "FloodAlert/1.0"
	// Device fixes older than this no longer count as a known position.
	fixMaxAge = 30 * time.Minute
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"sqliteMaxOpenConns", cfg.SQLiteMaxOpenConns,
		"sqliteMaxIdleConns", cfg.SQLiteMaxIdleConns,
		"sqliteConnMaxLifetime", cfg.SQLiteConnMaxLifetime,
		"riverAPIURL", cfg.RiverAPIURL,
		"weatherAPIURL", cfg.WeatherAPIURL,
		"routingAPIURL", cfg.RoutingAPIURL,
		"upstreamConnectTimeout", cfg.UpstreamConnectTimeout,
		"upstreamReadTimeout", cfg.UpstreamReadTimeout,
		"mqttEnabled", cfg.MQTTEnabled,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttLocationTopic", cfg.MQTTLocationTopic,
		"watchSchedule", cfg.WatchSchedule,
		"telegramEnabled", cfg.TelegramBotToken != "",
	)
	dbConn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close(dbConn)
		if closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := migrate.Run(dbConn); err != nil {
		return err
	}
	if err := db.Check(ctx, dbConn); err != nil {
		return err
	}
	slog.Info("database connection successful")

	if err := riskviews.LoadTemplates(); err != nil {
		return err
	}

	getter := upstream.NewGetter(upstream.NewHTTPClient(upstream.Timeouts{
		Connect: cfg.UpstreamConnectTimeout,
		Read:    cfg.UpstreamReadTimeout,
	}), userAgent)
	riskService := riskservice.NewService(riskclient.NewOpenMeteoClient(cfg.RiverAPIURL, cfg.WeatherAPIURL, getter))

	var (
		notifiers  []watchservice.ChangeNotifier
		health     []httpapi.Component
		mqttClient *mqtt.Client
	)
	if cfg.MQTTEnabled {
		mqttClient = mqtt.NewClient(cfg, logging.Component("mqtt"))
		health = append(health, httpapi.Component{Name: "mqtt", Check: mqttClient.Check, Optional: true})
	}

	mux := httpapi.NewMux(dbConn, health...)
	risk.RegisterFeature(mux, riskService)
	contactsService := contacts.RegisterFeature(mux, dbConn)
	zones.RegisterFeature(mux, dbConn, routing.NewOSRMClient(cfg.RoutingAPIURL, getter))
	tips.RegisterFeature(mux)

	// Set the MQTT handler before Connect so the on-connect subscription
	// delivers queued reports straight to it.
	if mqttClient != nil {
		sessions := risk.RegisterMQTT(mqttClient, mqttClient, riskService, geo.NewLastKnown(fixMaxAge), slog.Default())
		defer sessions.Close()
		notifiers = append(notifiers, watch.MQTTNotifier(mqttClient))

		// Short timeout so a missing broker does not block startup.
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err = mqttClient.Connect(connectCtx)
		connectCancel()
		if err != nil {
			slog.Warn("mqtt connection failed (continuing without mqtt)", "error", err)
		}
	}

	var wg sync.WaitGroup
	botCtx, stopBot := context.WithCancel(ctx)
	defer func() {
		stopBot()
		wg.Wait()
	}()
	if cfg.TelegramBotToken != "" {
		bot, err := telegram.New(cfg.TelegramBotToken, riskService, contactsService, cfg.TelegramAlertChatIDs, logging.Component("telegram"))
		if err != nil {
			slog.Warn("telegram bot unavailable (continuing without it)", "error", err)
		} else {
			notifiers = append(notifiers, bot)
			wg.Add(1)
			go func() {
				defer wg.Done()
				bot.Run(botCtx)
			}()
		}
	}

	watcher := watch.RegisterFeature(mux, dbConn, riskService, notifiers...)
	if err := watcher.Start(ctx, cfg.WatchSchedule); err != nil {
		return err
	}
	defer watcher.Stop()

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if mqttClient != nil {
		slog.Info("mqtt disconnecting")
		mqttClient.Disconnect()
	}

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
