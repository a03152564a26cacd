// Package router assembles the HTTP surface of the bot: booking API,
// availability, WhatsApp status probes and the inbound message webhook.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vitorfarias/agendabot/internal/appointments"
	"github.com/vitorfarias/agendabot/internal/calendar"
	httpmiddleware "github.com/vitorfarias/agendabot/internal/http/middleware"
	"github.com/vitorfarias/agendabot/internal/messaging"
	"github.com/vitorfarias/agendabot/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	BookingHandler     *appointments.Handler
	CalendarHandler    *calendar.Handler
	StatusHandler      *messaging.StatusHandler
	WebhookHandler     *messaging.WebhookHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.WebhookHandler != nil {
		r.Post("/webhooks/whatsapp", cfg.WebhookHandler.ServeHTTP)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.StatusHandler != nil {
			api.Get("/whatsapp/status", cfg.StatusHandler.Status)
			api.Get("/agendamento/status-whatsapp", cfg.StatusHandler.Readiness)
		}
		if cfg.CalendarHandler != nil {
			api.Get("/disponibilidade", cfg.CalendarHandler.Availability)
		}
		if cfg.BookingHandler != nil {
			api.Mount("/", cfg.BookingHandler.Routes())
		}
	})

	return r
}
