package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/vitorfarias/agendabot/internal/appointments"
	"github.com/vitorfarias/agendabot/pkg/logging"
)

// GoogleGateway implements Gateway over the Google Calendar API.
type GoogleGateway struct {
	svc        *gcal.Service
	calendarID string
	location   *time.Location
	duration   time.Duration
	logger     *logging.Logger
}

// GoogleConfig holds configuration for the Google Calendar backend.
type GoogleConfig struct {
	CalendarID      string
	CredentialsFile string
	Timezone        string
	Duration        time.Duration
}

// NewGoogleGateway builds a gateway using service-account credentials.
func NewGoogleGateway(ctx context.Context, cfg GoogleConfig, logger *logging.Logger) (*GoogleGateway, error) {
	if cfg.CalendarID == "" {
		return nil, fmt.Errorf("calendar: calendar id is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Duration <= 0 {
		cfg.Duration = 30 * time.Minute
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar: load timezone %q: %w", cfg.Timezone, err)
	}
	opts := []option.ClientOption{option.WithScopes(gcal.CalendarScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar: create service: %w", err)
	}
	return &GoogleGateway{
		svc:        svc,
		calendarID: cfg.CalendarID,
		location:   loc,
		duration:   cfg.Duration,
		logger:     logger,
	}, nil
}

// Location exposes the configured clinic timezone.
func (g *GoogleGateway) Location() *time.Location {
	return g.location
}

// CreateEvent inserts an event for the appointment slot and returns its id.
func (g *GoogleGateway) CreateEvent(ctx context.Context, p EventParams) (string, error) {
	start, end, err := EventTimes(p.Date, p.Time, g.location, g.duration)
	if err != nil {
		return "", err
	}
	event := &gcal.Event{
		Summary:     Summary(p.Status, p.PatientName),
		Description: fmt.Sprintf("Agendamento via bot. Telefone: %s", p.Phone),
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: g.location.String()},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: g.location.String()},
		ColorId:     ColorID(p.Status),
	}
	created, err := g.svc.Events.Insert(g.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar: insert event: %w", err)
	}
	g.logger.Info("calendar event created", "event_id", created.Id, "summary", event.Summary)
	return created.Id, nil
}

// PatchEvent rewrites only the summary and color for a status change. Start
// and end are never touched after creation.
func (g *GoogleGateway) PatchEvent(ctx context.Context, eventID, patientName string, status appointments.Status) error {
	if eventID == "" {
		return fmt.Errorf("calendar: patch: event id is required")
	}
	patch := &gcal.Event{
		Summary: Summary(status, patientName),
		ColorId: ColorID(status),
	}
	if _, err := g.svc.Events.Patch(g.calendarID, eventID, patch).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar: patch event %s: %w", eventID, err)
	}
	g.logger.Info("calendar event patched", "event_id", eventID, "status", string(status))
	return nil
}

// DeleteEvent removes the event outright.
func (g *GoogleGateway) DeleteEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return fmt.Errorf("calendar: delete: event id is required")
	}
	if err := g.svc.Events.Delete(g.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar: delete event %s: %w", eventID, err)
	}
	g.logger.Info("calendar event deleted", "event_id", eventID)
	return nil
}

// ListDay returns the busy intervals of every timed event on the given day.
// All-day events carry no clock and are ignored.
func (g *GoogleGateway) ListDay(ctx context.Context, day time.Time) ([]BusyInterval, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, g.location)
	dayEnd := dayStart.AddDate(0, 0, 1)
	resp, err := g.svc.Events.List(g.calendarID).
		TimeMin(dayStart.Format(time.RFC3339)).
		TimeMax(dayEnd.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: list events: %w", err)
	}
	var busy []BusyInterval
	for _, ev := range resp.Items {
		if ev.Start == nil || ev.Start.DateTime == "" || ev.End == nil || ev.End.DateTime == "" {
			continue
		}
		start, errS := time.Parse(time.RFC3339, ev.Start.DateTime)
		end, errE := time.Parse(time.RFC3339, ev.End.DateTime)
		if errS != nil || errE != nil {
			continue
		}
		busy = append(busy, BusyInterval{Start: start.In(g.location), End: end.In(g.location)})
	}
	return busy, nil
}

var _ Gateway = (*GoogleGateway)(nil)
