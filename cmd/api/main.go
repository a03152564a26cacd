package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vitorfarias/agendabot/internal/api/router"
	"github.com/vitorfarias/agendabot/internal/appointments"
	"github.com/vitorfarias/agendabot/internal/calendar"
	appconfig "github.com/vitorfarias/agendabot/internal/config"
	"github.com/vitorfarias/agendabot/internal/conversation"
	"github.com/vitorfarias/agendabot/internal/intent"
	"github.com/vitorfarias/agendabot/internal/messaging"
	"github.com/vitorfarias/agendabot/internal/messaging/bridgeclient"
	"github.com/vitorfarias/agendabot/internal/notify"
	"github.com/vitorfarias/agendabot/internal/reminders"
	"github.com/vitorfarias/agendabot/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting agendabot API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"store", cfg.StoreBackend,
	)

	ctx := context.Background()

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, falling back to local", "timezone", cfg.Timezone, "error", err)
		location = time.Local
	}

	store, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize appointment store", "error", err)
		os.Exit(1)
	}

	channel := buildChannel(cfg, logger)
	gateway := buildCalendar(ctx, cfg, logger)
	emailSender := buildEmailSender(ctx, cfg, logger)

	notifier := notify.NewNotifier(channel, emailSender, cfg.DentistPhone, cfg.DentistEmail, logger)
	responder := intent.NewResponder(cfg.BookingLink)
	states := buildStateStore(cfg)
	engine := conversation.NewEngine(store, states, gateway, notifier, responder, logger)

	bookingService := appointments.NewService(store, gateway, notifier, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		BookingHandler:     appointments.NewHandler(bookingService, logger),
		CalendarHandler:    calendar.NewHandler(gateway, cfg.DailySlots, cfg.ConsultationDuration, location, logger),
		StatusHandler:      messaging.NewStatusHandler(channel, logger),
		WebhookHandler:     messaging.NewWebhookHandler(engine, channel, logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	sweeper := reminders.NewSweeper(store, channel, reminders.Config{
		DentistPhone: cfg.DentistPhone,
		Location:     location,
		Interval:     cfg.ReminderInterval,
		Tolerance:    cfg.ReminderTolerance,
	}, logger)
	go sweeper.Run(sweepCtx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}

func buildStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (appointments.Store, error) {
	switch cfg.StoreBackend {
	case "memory":
		logger.Info("using in-memory appointment store")
		return appointments.NewInMemoryStore(), nil
	case "postgres":
		pool, err := appointments.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return appointments.NewPostgresStore(pool), nil
	default:
		return appointments.NewSheetsStore(ctx, appointments.SheetsConfig{
			SpreadsheetID:   cfg.SpreadsheetID,
			SheetName:       cfg.SheetName,
			CredentialsFile: cfg.GoogleCredsFile,
		}, logger)
	}
}

func buildChannel(cfg *appconfig.Config, logger *logging.Logger) messaging.Channel {
	if cfg.BridgeBaseURL == "" {
		logger.Info("no WhatsApp bridge configured, using stub channel")
		return messaging.NewStubChannel(logger)
	}
	client, err := bridgeclient.New(bridgeclient.Config{
		BaseURL:  cfg.BridgeBaseURL,
		APIToken: cfg.BridgeAPIToken,
		Timeout:  cfg.BridgeTimeout,
		Logger:   logger.Logger,
	})
	if err != nil {
		logger.Error("failed to create bridge client, using stub channel", "error", err)
		return messaging.NewStubChannel(logger)
	}
	return client
}

func buildCalendar(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) calendar.Gateway {
	if cfg.CalendarID == "" {
		logger.Info("no calendar configured, using stub gateway")
		return calendar.NewStubGateway(logger)
	}
	gw, err := calendar.NewGoogleGateway(ctx, calendar.GoogleConfig{
		CalendarID:      cfg.CalendarID,
		CredentialsFile: cfg.GoogleCredsFile,
		Timezone:        cfg.Timezone,
		Duration:        cfg.ConsultationDuration,
	}, logger)
	if err != nil {
		logger.Error("failed to create calendar gateway, using stub", "error", err)
		return calendar.NewStubGateway(logger)
	}
	return gw
}

func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			return s
		}
		logger.Error("sendgrid selected but no API key configured")
		return nil
	case "ses":
		s, err := notify.NewSESSender(ctx, notify.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			FromEmail:       cfg.SESFromEmail,
			FromName:        cfg.SESFromName,
			Endpoint:        cfg.AWSEndpointOverride,
		}, logger)
		if err != nil {
			logger.Error("failed to create SES sender", "error", err)
			return nil
		}
		return s
	default:
		return nil
	}
}

func buildStateStore(cfg *appconfig.Config) conversation.StateStore {
	if cfg.RedisAddr == "" {
		return conversation.NewMemoryStateStore(cfg.StateTTL)
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return conversation.NewRedisStateStore(redis.NewClient(opts), cfg.StateTTL)
}
