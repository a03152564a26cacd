package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCanceller struct {
	patched []string
}

func (f *fakeCanceller) PatchEvent(_ context.Context, eventID, _ string, _ Status) error {
	f.patched = append(f.patched, eventID)
	return nil
}

type fakeNotifier struct {
	pending   []Appointment
	cancelled []Appointment
}

func (f *fakeNotifier) BookingPending(_ context.Context, appt Appointment) {
	f.pending = append(f.pending, appt)
}

func (f *fakeNotifier) OperatorCancelled(_ context.Context, appt Appointment) {
	f.cancelled = append(f.cancelled, appt)
}

func validCreateParams() CreateParams {
	return CreateParams{
		PatientName: "Ana Souza",
		Phone:       "5531999998888",
		Email:       "ana@example.com",
		Date:        "10/05/2025",
		Time:        "18:00",
		Procedure:   "Avaliação",
	}
}

func TestServiceCreateAppendsPendingRow(t *testing.T) {
	store := NewInMemoryStore()
	notifier := &fakeNotifier{}
	svc := NewService(store, nil, notifier, nil)
	svc.newID = func() string { return "fixed-id" }
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }

	appt, err := svc.Create(context.Background(), validCreateParams())
	require.NoError(t, err)

	assert.Equal(t, "fixed-id", appt.ID)
	assert.True(t, appt.Status.Equal(StatusPending))
	assert.Empty(t, appt.CalendarEventID)
	assert.Equal(t, "2025-05-01T12:00:00Z", appt.CreatedAt)

	rows, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.Len(t, notifier.pending, 1)
	assert.Equal(t, "fixed-id", notifier.pending[0].ID)
}

func TestServiceCreateRejectsMissingFields(t *testing.T) {
	svc := NewService(NewInMemoryStore(), nil, nil, nil)

	p := validCreateParams()
	p.Email = ""
	_, err := svc.Create(context.Background(), p)
	assert.ErrorIs(t, err, ErrMissingFields)

	rows, listErr := svc.store.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, rows)
}

func TestServiceCancelByIDPatchesEventAndNotifies(t *testing.T) {
	store := NewInMemoryStore()
	canceller := &fakeCanceller{}
	notifier := &fakeNotifier{}
	svc := NewService(store, canceller, notifier, nil)

	require.NoError(t, store.Append(context.Background(), &Appointment{
		ID: "a1", PatientName: "Ana", Phone: "5531999998888",
		Date: "10/05/2025", Time: "18:00",
		Status: StatusConfirmed, CalendarEventID: "evt-1",
	}))

	already, err := svc.CancelByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.False(t, already)

	got, err := FindByID(context.Background(), store, "a1")
	require.NoError(t, err)
	assert.True(t, got.Status.Equal(StatusCancelled))
	// Operator cancel keeps the event, only recolors it.
	assert.Equal(t, "evt-1", got.CalendarEventID)
	assert.Equal(t, []string{"evt-1"}, canceller.patched)
	require.Len(t, notifier.cancelled, 1)
}

func TestServiceCancelByIDIdempotent(t *testing.T) {
	store := NewInMemoryStore()
	canceller := &fakeCanceller{}
	svc := NewService(store, canceller, &fakeNotifier{}, nil)

	require.NoError(t, store.Append(context.Background(), &Appointment{
		ID: "a1", PatientName: "Ana", Status: StatusCancelled, CalendarEventID: "evt-1",
	}))

	already, err := svc.CancelByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, already)
	assert.Empty(t, canceller.patched)
}

func TestServiceCancelByIDUnknown(t *testing.T) {
	svc := NewService(NewInMemoryStore(), nil, nil, nil)

	_, err := svc.CancelByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceListReturnsHeaderMaps(t *testing.T) {
	store := NewInMemoryStore()
	svc := NewService(store, nil, nil, nil)

	require.NoError(t, store.Append(context.Background(), &Appointment{
		ID: "a1", PatientName: "Ana", Phone: "5531999998888",
		Date: "10/05/2025", Time: "18:00", Status: StatusPending,
	}))

	rows, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0]["nome"])
	assert.Equal(t, "Pendente", rows[0]["status"])
	assert.Equal(t, "10/05/2025", rows[0]["data_agendamento"])
}
