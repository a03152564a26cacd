package appointments

import (
	"context"
	"errors"

	"github.com/vitorfarias/agendabot/internal/messaging"
)

var (
	// ErrNotFound is returned when no row matches the requested id.
	ErrNotFound = errors.New("appointments: not found")
)

// Store is the row-oriented appointment table. Implementations must preserve
// append order: lookups scan for the MOST RECENT matching row, so List has to
// return rows oldest-first.
type Store interface {
	Append(ctx context.Context, appt *Appointment) error
	List(ctx context.Context) ([]Appointment, error)
	SetStatus(ctx context.Context, id string, status Status) error
	SetCalendarEventID(ctx context.Context, id, eventID string) error
	SetMilestone(ctx context.Context, id string, m Milestone) error
}

// FindByID scans for a row by id. Returns ErrNotFound when absent.
func FindByID(ctx context.Context, store Store, id string) (*Appointment, error) {
	rows, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ID == id {
			return &rows[i], nil
		}
	}
	return nil, ErrNotFound
}

// FindPending returns the most recent Pendente row for the phone, or nil.
// Phones compare in canonical form on both sides.
func FindPending(ctx context.Context, store Store, phone string) (*Appointment, error) {
	return findLast(ctx, store, phone, func(s Status) bool { return s.Equal(StatusPending) })
}

// FindActive returns the most recent Pendente or Confirmado row for the
// phone, or nil. This is "the" active appointment: no uniqueness constraint
// exists, last write wins.
func FindActive(ctx context.Context, store Store, phone string) (*Appointment, error) {
	return findLast(ctx, store, phone, Status.Active)
}

func findLast(ctx context.Context, store Store, phone string, match func(Status) bool) (*Appointment, error) {
	rows, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	want := messaging.NormalizePhone(phone)
	if want == "" {
		return nil, nil
	}
	for i := len(rows) - 1; i >= 0; i-- {
		if !match(rows[i].Status) {
			continue
		}
		if messaging.NormalizePhone(rows[i].Phone) == want {
			return &rows[i], nil
		}
	}
	return nil, nil
}
