package appointments

import (
	"context"
	"sync"
)

// InMemoryStore keeps appointments in a slice, preserving append order.
// Used in tests and local development without Google credentials.
type InMemoryStore struct {
	mu   sync.RWMutex
	rows []Appointment
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Append adds a row at the end of the table.
func (s *InMemoryStore) Append(ctx context.Context, appt *Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, *appt)
	return nil
}

// List returns all rows oldest-first.
func (s *InMemoryStore) List(ctx context.Context) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Appointment, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// SetStatus updates the status cell of the row with the given id.
func (s *InMemoryStore) SetStatus(ctx context.Context, id string, status Status) error {
	return s.update(id, func(a *Appointment) { a.Status = status })
}

// SetCalendarEventID updates the calendar event cell; empty clears it.
func (s *InMemoryStore) SetCalendarEventID(ctx context.Context, id, eventID string) error {
	return s.update(id, func(a *Appointment) { a.CalendarEventID = eventID })
}

// SetMilestone writes both notification marker cells.
func (s *InMemoryStore) SetMilestone(ctx context.Context, id string, m Milestone) error {
	return s.update(id, func(a *Appointment) {
		a.NotifiedClient = m
		a.NotifiedDentist = m
	})
}

func (s *InMemoryStore) update(id string, apply func(*Appointment)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			apply(&s.rows[i])
			return nil
		}
	}
	return ErrNotFound
}

var _ Store = (*InMemoryStore)(nil)
