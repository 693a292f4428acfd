package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertRecordsTypeAndPayload(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	evt := BookingConfirmedV1{BookingID: uuid.New(), CustomerID: uuid.New()}
	mock.ExpectExec("INSERT INTO booking_events").
		WithArgs(pgxmock.AnyArg(), TypeBookingConfirmed, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewOutboxStore(mock)
	id, err := store.Insert(context.Background(), evt)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPendingOldestFirst(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	older := uuid.New()
	newer := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, type, payload, created_at").
		WithArgs(int32(10)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "type", "payload", "created_at"}).
			AddRow(older, TypeBookingCreated, []byte(`{}`), now.Add(-time.Minute)).
			AddRow(newer, TypeBookingConfirmed, []byte(`{}`), now))

	store := NewOutboxStore(mock)
	entries, err := store.FetchPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, older, entries[0].ID)
	assert.Equal(t, TypeBookingCreated, entries[0].Type)
}

func TestMarkDeliveredOnlyOnce(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectExec("UPDATE booking_events").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE booking_events").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	store := NewOutboxStore(mock)
	ok, err := store.MarkDelivered(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.MarkDelivered(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, ok, "second stamp should report already delivered")
}

type recordingHandler struct {
	entries []OutboxEntry
	err     error
}

func (h *recordingHandler) Handle(_ context.Context, entry OutboxEntry) error {
	if h.err != nil {
		return h.err
	}
	h.entries = append(h.entries, entry)
	return nil
}

func TestDelivererDrainMarksDelivered(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	payload, _ := json.Marshal(BookingReminderV1{BookingID: uuid.New()})
	mock.ExpectQuery("SELECT id, type, payload, created_at").
		WithArgs(int32(25)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "type", "payload", "created_at"}).
			AddRow(id, TypeBookingReminder, payload, time.Now().UTC()))
	mock.ExpectExec("UPDATE booking_events").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	handler := &recordingHandler{}
	d := NewDeliverer(NewOutboxStore(mock), handler, nil)
	d.drain(context.Background())

	require.Len(t, handler.entries, 1)
	assert.Equal(t, id, handler.entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelivererDrainKeepsFailedEntries(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, type, payload, created_at").
		WithArgs(int32(25)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "type", "payload", "created_at"}).
			AddRow(uuid.New(), TypeBookingCreated, []byte(`{}`), time.Now().UTC()))
	// No UPDATE is expected: a failed handler leaves the entry pending.

	handler := &recordingHandler{err: assert.AnError}
	d := NewDeliverer(NewOutboxStore(mock), handler, nil)
	d.drain(context.Background())

	assert.NoError(t, mock.ExpectationsWereMet())
}
