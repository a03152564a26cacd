// The reminder-worker runs the reminder sweeper on its own, for deployments
// that want reminders decoupled from the API process. Only one instance
// should run per spreadsheet: the milestone markers are the only duplicate
// guard and two sweepers can race between read and write.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vitorfarias/agendabot/internal/appointments"
	appconfig "github.com/vitorfarias/agendabot/internal/config"
	"github.com/vitorfarias/agendabot/internal/messaging"
	"github.com/vitorfarias/agendabot/internal/messaging/bridgeclient"
	"github.com/vitorfarias/agendabot/internal/reminders"
	"github.com/vitorfarias/agendabot/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting agendabot reminder worker",
		"env", cfg.Env,
		"interval", cfg.ReminderInterval.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	var channel messaging.Channel
	if cfg.BridgeBaseURL == "" {
		logger.Info("no WhatsApp bridge configured, using stub channel")
		channel = messaging.NewStubChannel(logger)
	} else {
		client, err := bridgeclient.New(bridgeclient.Config{
			BaseURL:  cfg.BridgeBaseURL,
			APIToken: cfg.BridgeAPIToken,
			Timeout:  cfg.BridgeTimeout,
			Logger:   logger.Logger,
		})
		if err != nil {
			logger.Error("failed to create bridge client", "error", err)
			os.Exit(1)
		}
		channel = client
	}

	sweeper := reminders.NewSweeper(store, channel, reminders.Config{
		DentistPhone: cfg.DentistPhone,
		Location:     location,
		Interval:     cfg.ReminderInterval,
		Tolerance:    cfg.ReminderTolerance,
	}, logger)

	sweeper.Run(ctx)
	logger.Info("reminder worker stopped")
}

func buildStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (appointments.Store, error) {
	switch cfg.StoreBackend {
	case "memory":
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
