// Package reminders runs the periodic sweep that sends 24h and 2h
// appointment reminders over WhatsApp.
package reminders

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/vitorfarias/agendabot/internal/appointments"
	"github.com/vitorfarias/agendabot/internal/observability/metrics"
	"github.com/vitorfarias/agendabot/pkg/logging"
)

var sweeperTracer = otel.Tracer("agendabot/reminders")

const (
	target24h = 24 * 60
	target2h  = 2 * 60
)

// TextSender sends a WhatsApp text to a phone number.
type TextSender interface {
	SendText(ctx context.Context, phone, body string) error
}

// Sweeper scans the appointment table on an interval and sends the 24h and
// 2h reminders for confirmed appointments whose start falls inside the
// tolerance window. The milestone marker on the row keeps each reminder to
// at most one send.
type Sweeper struct {
	store        appointments.Store
	texter       TextSender
	dentistPhone string
	location     *time.Location
	interval     time.Duration
	tolerance    time.Duration
	logger       *logging.Logger
	now          func() time.Time
}

// Config holds the sweeper settings.
type Config struct {
	DentistPhone string
	Location     *time.Location
	Interval     time.Duration
	Tolerance    time.Duration
}

// NewSweeper creates a reminder sweeper.
func NewSweeper(store appointments.Store, texter TextSender, cfg Config, logger *logging.Logger) *Sweeper {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 10 * time.Minute
	}
	return &Sweeper{
		store:        store,
		texter:       texter,
		dentistPhone: cfg.DentistPhone,
		location:     cfg.Location,
		interval:     cfg.Interval,
		tolerance:    cfg.Tolerance,
		logger:       logger,
		now:          time.Now,
	}
}

// Run sweeps immediately and then on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("reminder sweeper started", "interval", s.interval.String())

	if err := s.Sweep(ctx); err != nil {
		s.logger.Error("reminder sweep failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder sweeper stopped")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Error("reminder sweep failed", "error", err)
			}
		}
	}
}

// Sweep runs one pass over the table. A row that can't be read aborts the
// whole pass; a row that can't be parsed is skipped.
func (s *Sweeper) Sweep(ctx context.Context) error {
	ctx, span := sweeperTracer.Start(ctx, "reminders.Sweep")
	defer span.End()

	rows, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("reminders: list appointments: %w", err)
	}

	now := s.now()
	for i := range rows {
		s.sweepRow(ctx, &rows[i], now)
	}
	return nil
}

func (s *Sweeper) sweepRow(ctx context.Context, appt *appointments.Appointment, now time.Time) {
	if appt.ID == "" || !appt.Status.Equal(appointments.StatusConfirmed) {
		return
	}
	startsAt, err := appt.StartsAt(s.location)
	if err != nil {
		return
	}

	deltaMinutes := int(math.Round(startsAt.Sub(now).Minutes()))
	tolerance := int(s.tolerance.Minutes())

	if abs(deltaMinutes-target24h) <= tolerance && appt.NotifiedClient != appointments.Milestone24h {
		s.send(ctx, appt,
			fmt.Sprintf("🔔 Lembrete: Olá %s, seu agendamento para *%s* é amanhã às %s. Caso precise alterar ou cancelar, responda por aqui.",
				appt.PatientName, appt.ProcedureLabel(), appt.Time),
			fmt.Sprintf("🔔 Lembrete 24h: Paciente %s (%s) - %s %s",
				appt.PatientName, appt.ProcedureLabel(), appt.Date, appt.Time),
			appointments.Milestone24h)
	}

	if abs(deltaMinutes-target2h) <= tolerance && appt.NotifiedClient != appointments.Milestone2h {
		s.send(ctx, appt,
			fmt.Sprintf("⏰ Lembrete: Olá %s, seu agendamento para *%s* é HOJE às %s. Estaremos te aguardando!",
				appt.PatientName, appt.ProcedureLabel(), appt.Time),
			fmt.Sprintf("⏰ Lembrete 2h: Paciente %s (%s) - %s %s",
				appt.PatientName, appt.ProcedureLabel(), appt.Date, appt.Time),
			appointments.Milestone2h)
	}
}

// send delivers the patient reminder, copies the dentist, then marks the
// milestone. The marker write is best effort: a failure means the reminder
// may repeat on the next pass, which beats never sending it.
func (s *Sweeper) send(ctx context.Context, appt *appointments.Appointment, patientMsg, dentistMsg string, m appointments.Milestone) {
	if err := s.texter.SendText(ctx, appt.Phone, patientMsg); err != nil {
		s.logger.Error("patient reminder failed", "error", err, "appointment_id", appt.ID)
		return
	}
	if s.dentistPhone != "" {
		if err := s.texter.SendText(ctx, s.dentistPhone, dentistMsg); err != nil {
			s.logger.Error("dentist reminder failed", "error", err, "appointment_id", appt.ID)
		}
	}
	if err := s.store.SetMilestone(ctx, appt.ID, m); err != nil {
		s.logger.Error("milestone write failed", "error", err, "appointment_id", appt.ID, "milestone", string(m))
	} else {
		appt.NotifiedClient = m
		appt.NotifiedDentist = m
	}

	metrics.RemindersSent.WithLabelValues(milestoneLabel(m)).Inc()
	s.logger.Info("reminder sent", "appointment_id", appt.ID, "milestone", string(m))
}

func milestoneLabel(m appointments.Milestone) string {
	switch m {
	case appointments.Milestone24h:
		return "24h"
	case appointments.Milestone2h:
		return "2h"
	default:
		return "unknown"
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
