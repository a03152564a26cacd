package appointments

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxIface is the subset of pgxpool.Pool the store needs; pgxmock satisfies
// it in tests.
type PgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore keeps appointments in a relational table with the same
// column semantics as the spreadsheet, including insertion order: List
// returns rows oldest-first so most-recent-match scans behave identically.
type PostgresStore struct {
	db PgxIface
}

// NewPgxPool connects a pgx pool and verifies the connection.
func NewPgxPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("appointments: database url is required")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("appointments: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("appointments: ping postgres: %w", err)
	}
	return pool, nil
}

// NewPostgresStore creates a store over a pgx pool (or mock).
func NewPostgresStore(db PgxIface) *PostgresStore {
	if db == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresStore{db: db}
}

const insertAppointmentSQL = `
INSERT INTO appointments (
	id, patient_name, phone, email, date, time, status, procedure,
	calendar_event_id, notified_client, notified_dentist, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

// Append inserts a new appointment row.
func (s *PostgresStore) Append(ctx context.Context, appt *Appointment) error {
	_, err := s.db.Exec(ctx, insertAppointmentSQL,
		appt.ID, appt.PatientName, appt.Phone, appt.Email, appt.Date,
		appt.Time, string(appt.Status), appt.Procedure, appt.CalendarEventID,
		string(appt.NotifiedClient), string(appt.NotifiedDentist), appt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("appointments: insert: %w", err)
	}
	return nil
}

const listAppointmentsSQL = `
SELECT id, patient_name, phone, email, date, time, status, procedure,
       calendar_event_id, notified_client, notified_dentist, created_at
FROM appointments
ORDER BY seq ASC`

// List returns all rows oldest-first.
func (s *PostgresStore) List(ctx context.Context) ([]Appointment, error) {
	rows, err := s.db.Query(ctx, listAppointmentsSQL)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var a Appointment
		var status, notifiedClient, notifiedDentist string
		if err := rows.Scan(
			&a.ID, &a.PatientName, &a.Phone, &a.Email, &a.Date, &a.Time,
			&status, &a.Procedure, &a.CalendarEventID,
			&notifiedClient, &notifiedDentist, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		a.Status = Status(status)
		a.NotifiedClient = Milestone(notifiedClient)
		a.NotifiedDentist = Milestone(notifiedDentist)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	return out, nil
}

// SetStatus updates the status column of the row with the given id.
func (s *PostgresStore) SetStatus(ctx context.Context, id string, status Status) error {
	return s.updateColumn(ctx, id, "UPDATE appointments SET status = $2 WHERE id = $1", string(status))
}

// SetCalendarEventID updates the calendar event column; empty clears it.
func (s *PostgresStore) SetCalendarEventID(ctx context.Context, id, eventID string) error {
	return s.updateColumn(ctx, id, "UPDATE appointments SET calendar_event_id = $2 WHERE id = $1", eventID)
}

// SetMilestone writes both notification marker columns in one statement.
func (s *PostgresStore) SetMilestone(ctx context.Context, id string, m Milestone) error {
	return s.updateColumn(ctx, id,
		"UPDATE appointments SET notified_client = $2, notified_dentist = $2 WHERE id = $1", string(m))
}

func (s *PostgresStore) updateColumn(ctx context.Context, id, sql, value string) error {
	tag, err := s.db.Exec(ctx, sql, id, value)
	if err != nil {
		return fmt.Errorf("appointments: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
