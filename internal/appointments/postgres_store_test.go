package appointments

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return NewPostgresStore(mock), mock
}

func TestPostgresStoreAppend(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs("a1", "Ana", "5531999998888", "ana@example.com", "10/05/2025",
			"18:00", "Pendente", "Avaliação", "", "", "", "2025-05-01T12:00:00Z").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := store.Append(context.Background(), &Appointment{
		ID:          "a1",
		PatientName: "Ana",
		Phone:       "5531999998888",
		Email:       "ana@example.com",
		Date:        "10/05/2025",
		Time:        "18:00",
		Status:      StatusPending,
		Procedure:   "Avaliação",
		CreatedAt:   "2025-05-01T12:00:00Z",
	})
	assert.NoError(t, err)
}

func TestPostgresStoreListPreservesInsertionOrder(t *testing.T) {
	store, mock := newMockStore(t)

	rows := pgxmock.NewRows([]string{
		"id", "patient_name", "phone", "email", "date", "time", "status",
		"procedure", "calendar_event_id", "notified_client", "notified_dentist", "created_at",
	}).
		AddRow("a1", "Ana", "5531999998888", "", "10/05/2025", "18:00", "Cancelado", "", "", "", "", "").
		AddRow("a2", "Ana", "5531999998888", "", "12/05/2025", "19:00", "Confirmado", "", "evt-1", "1", "1", "")

	mock.ExpectQuery("SELECT (.+) FROM appointments ORDER BY seq ASC").WillReturnRows(rows)

	got, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "a2", got[1].ID)
	assert.True(t, got[1].Status.Equal(StatusConfirmed))
	assert.Equal(t, Milestone24h, got[1].NotifiedClient)
}

func TestPostgresStoreSetStatus(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE appointments SET status").
		WithArgs("a1", "Confirmado").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, store.SetStatus(context.Background(), "a1", StatusConfirmed))
}

func TestPostgresStoreSetStatusNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE appointments SET status").
		WithArgs("missing", "Cancelado").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := store.SetStatus(context.Background(), "missing", StatusCancelled)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStoreSetMilestoneWritesBothColumns(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE appointments SET notified_client = \\$2, notified_dentist = \\$2").
		WithArgs("a1", "1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, store.SetMilestone(context.Background(), "a1", Milestone24h))
}

func TestPostgresStoreSetCalendarEventIDClears(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE appointments SET calendar_event_id").
		WithArgs("a1", "").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, store.SetCalendarEventID(context.Background(), "a1", ""))
}
