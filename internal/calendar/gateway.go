// Package calendar owns the scheduling math and the gateway to the clinic's
// calendar service: event shaping (title, color, start/end), availability
// computation, and the create/patch/delete operations the bot drives.
package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vitorfarias/agendabot/internal/appointments"
	"github.com/vitorfarias/agendabot/pkg/logging"
)

// BusyInterval is an occupied [Start, End) span on the clinic calendar.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// EventParams carries everything needed to shape a calendar event.
type EventParams struct {
	PatientName string
	Phone       string
	Date        string // DD/MM/YYYY
	Time        string // HH:MM
	Status      appointments.Status
}

// Gateway abstracts the calendar service. Create returns the event id;
// failures are caught at call sites and never abort the user-facing flow.
type Gateway interface {
	CreateEvent(ctx context.Context, p EventParams) (string, error)
	PatchEvent(ctx context.Context, eventID, patientName string, status appointments.Status) error
	DeleteEvent(ctx context.Context, eventID string) error
	ListDay(ctx context.Context, day time.Time) ([]BusyInterval, error)
}

// Summary encodes the status in a bracketed prefix so the calendar UI can be
// scanned at a glance: "[CONFIRMADO] Avaliação - Ana".
func Summary(status appointments.Status, patientName string) string {
	return fmt.Sprintf("[%s] Avaliação - %s", strings.ToUpper(string(status)), patientName)
}

// ColorID maps a status to the calendar color code: confirmed green,
// cancelled red, anything else grey.
func ColorID(status appointments.Status) string {
	switch {
	case status.Equal(appointments.StatusConfirmed):
		return "2"
	case status.Equal(appointments.StatusCancelled):
		return "11"
	default:
		return "5"
	}
}

// EventTimes computes the event window: start from the stored date/time in
// loc, end after the configured consultation duration.
func EventTimes(date, clock string, loc *time.Location, duration time.Duration) (start, end time.Time, err error) {
	start, err = appointments.ParseSlot(date, clock, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.Add(duration), nil
}

// StubGateway records calls without touching any calendar; used in tests and
// when no calendar id is configured.
type StubGateway struct {
	logger *logging.Logger
}

// NewStubGateway creates a no-op gateway.
func NewStubGateway(logger *logging.Logger) *StubGateway {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubGateway{logger: logger}
}

func (g *StubGateway) CreateEvent(ctx context.Context, p EventParams) (string, error) {
	g.logger.Info("stub calendar: would create event", "summary", Summary(p.Status, p.PatientName))
	return "", nil
}

func (g *StubGateway) PatchEvent(ctx context.Context, eventID, patientName string, status appointments.Status) error {
	g.logger.Info("stub calendar: would patch event", "event_id", eventID, "status", string(status))
	return nil
}

func (g *StubGateway) DeleteEvent(ctx context.Context, eventID string) error {
	g.logger.Info("stub calendar: would delete event", "event_id", eventID)
	return nil
}

func (g *StubGateway) ListDay(ctx context.Context, day time.Time) ([]BusyInterval, error) {
	return nil, nil
}

var _ Gateway = (*StubGateway)(nil)
