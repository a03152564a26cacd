package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vitorfarias/agendabot/internal/observability/metrics"
	"github.com/vitorfarias/agendabot/pkg/logging"
)

var bookingTracer = otel.Tracer("agendabot/appointments")

// ErrMissingFields is returned by Create when any required field is empty.
var ErrMissingFields = errors.New("appointments: all fields are required")

// EventCanceller is the calendar surface the booking service needs: patch
// for the operator-cancel path, which keeps the event on the calendar as a
// red tombstone instead of deleting it.
type EventCanceller interface {
	PatchEvent(ctx context.Context, eventID, patientName string, status Status) error
}

// PendingNotifier announces new and cancelled bookings. Satisfied by
// notify.Notifier.
type PendingNotifier interface {
	BookingPending(ctx context.Context, appt Appointment)
	OperatorCancelled(ctx context.Context, appt Appointment)
}

// CreateParams are the fields of a new booking request. All are required.
type CreateParams struct {
	PatientName string `json:"nome"`
	Phone       string `json:"telefone"`
	Email       string `json:"email"`
	Date        string `json:"data_agendamento"`
	Time        string `json:"horario"`
	Procedure   string `json:"procedimento"`
}

// Service owns the booking lifecycle operations exposed over the HTTP API.
// The conversational confirm/cancel flows live in the conversation package;
// this service covers the web form (create) and the operator dashboard
// (list, cancel).
type Service struct {
	store    Store
	calendar EventCanceller
	notifier PendingNotifier
	logger   *logging.Logger
	now      func() time.Time
	newID    func() string
}

// NewService creates a booking service. calendar and notifier may be nil.
func NewService(store Store, calendar EventCanceller, notifier PendingNotifier, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:    store,
		calendar: calendar,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// Create appends a new Pendente booking and fires the pre-confirmation
// notifications. No calendar event is created here: that happens only when
// the patient confirms over WhatsApp.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.Create")
	defer span.End()

	if p.PatientName == "" || p.Phone == "" || p.Email == "" || p.Date == "" || p.Time == "" || p.Procedure == "" {
		return nil, ErrMissingFields
	}

	appt := &Appointment{
		ID:          s.newID(),
		PatientName: p.PatientName,
		Phone:       p.Phone,
		Email:       p.Email,
		Date:        p.Date,
		Time:        p.Time,
		Status:      StatusPending,
		Procedure:   p.Procedure,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
	}
	span.SetAttributes(attribute.String("appointment.id", appt.ID))

	if err := s.store.Append(ctx, appt); err != nil {
		return nil, fmt.Errorf("appointments: create booking: %w", err)
	}

	if s.notifier != nil {
		s.notifier.BookingPending(ctx, *appt)
	}
	metrics.Bookings.WithLabelValues(metrics.OutcomeCreated).Inc()
	s.logger.Info("pending booking created", "appointment_id", appt.ID, "date", appt.Date, "time", appt.Time)
	return appt, nil
}

// CancelByID cancels a booking on behalf of the clinic operator. Already
// cancelled rows are a no-op success. The calendar event is kept and patched
// to the cancelled title and color, so the slot history stays visible.
func (s *Service) CancelByID(ctx context.Context, id string) (alreadyCancelled bool, err error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.CancelByID",
		trace.WithAttributes(attribute.String("appointment.id", id)))
	defer span.End()

	appt, err := FindByID(ctx, s.store, id)
	if err != nil {
		return false, err
	}
	if appt.Status.Equal(StatusCancelled) {
		return true, nil
	}

	if err := s.store.SetStatus(ctx, id, StatusCancelled); err != nil {
		return false, fmt.Errorf("appointments: cancel booking: %w", err)
	}
	appt.Status = StatusCancelled

	if s.calendar != nil && appt.CalendarEventID != "" {
		if err := s.calendar.PatchEvent(ctx, appt.CalendarEventID, appt.PatientName, StatusCancelled); err != nil {
			s.logger.Error("calendar event patch failed", "error", err, "event_id", appt.CalendarEventID)
		}
	}

	if s.notifier != nil {
		s.notifier.OperatorCancelled(ctx, *appt)
	}
	metrics.Bookings.WithLabelValues(metrics.OutcomeOperatorCancel).Inc()
	s.logger.Info("booking cancelled by operator", "appointment_id", id)
	return false, nil
}

// List returns every row as a header-keyed map, mirroring the spreadsheet
// for the operator dashboard.
func (s *Service) List(ctx context.Context) ([]map[string]string, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("appointments: list bookings: %w", err)
	}
	out := make([]map[string]string, 0, len(rows))
	for i := range rows {
		out = append(out, HeaderMap(&rows[i]))
	}
	return out, nil
}
