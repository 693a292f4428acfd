package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/hazelbrook/bookline/internal/events"
	"github.com/hazelbrook/bookline/internal/interval"
)

func testBooking() *Booking {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return &Booking{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		ProviderID: uuid.New(),
		ServiceID:  uuid.New(),
		Interval:   interval.New(start, start.Add(time.Hour)),
		Status:     StatusPending,
		PriceCents: 9900,
		CreatedAt:  start.Add(-24 * time.Hour),
		UpdatedAt:  start.Add(-24 * time.Hour),
	}
}

func TestCreateInsertsBookingAndEvent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	b := testBooking()
	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs(b.ProviderID).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(b.ProviderID, activeStatuses(), b.Interval.Start, b.Interval.End).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(b.ID, b.CustomerID, b.ProviderID, b.ServiceID,
			b.Interval.Start, b.Interval.End, string(StatusPending), b.PriceCents, b.Notes, b.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO booking_events").
		WithArgs(pgxmock.AnyArg(), "booking.created.v1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	store := NewStore(mock, events.NewOutboxStore(mock))
	evt := events.BookingCreatedV1{BookingID: b.ID}
	if err := store.Create(context.Background(), b, evt); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateOverlapLosesRace(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	b := testBooking()
	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs(b.ProviderID).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(b.ProviderID, activeStatuses(), b.Interval.Start, b.Interval.End).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	store := NewStore(mock, events.NewOutboxStore(mock))
	err = store.Create(context.Background(), b, nil)
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("Create error = %v, want ErrSlotUnavailable", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs(id).
		WillReturnRows(bookingRows())

	store := NewStore(mock, nil)
	_, err = store.Get(context.Background(), id)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get error = %v, want ErrNotFound", err)
	}
}

func bookingRows(bookings ...*Booking) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"id", "customer_id", "provider_id", "service_id", "start_at", "end_at",
		"status", "price_cents", "notes", "cancellation_reason", "created_at", "updated_at",
	})
	for _, b := range bookings {
		rows.AddRow(b.ID, b.CustomerID, b.ProviderID, b.ServiceID, b.Interval.Start, b.Interval.End,
			string(b.Status), b.PriceCents, b.Notes, b.CancellationReason, b.CreatedAt, b.UpdatedAt)
	}
	return rows
}

func TestUpdateStatusGuardFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	id := uuid.New()
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE bookings").
		WithArgs(id, string(StatusPending), string(StatusConfirmed), "", now).
		WillReturnRows(bookingRows())
	mock.ExpectRollback()

	store := NewStore(mock, nil)
	_, err = store.UpdateStatus(context.Background(), id, StatusPending, StatusConfirmed, "", now, nil)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("UpdateStatus error = %v, want ErrIllegalTransition", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpdateStatusWritesEventInTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	b := testBooking()
	b.Status = StatusCompleted
	now := b.Interval.End.Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE bookings").
		WithArgs(b.ID, string(StatusConfirmed), string(StatusCompleted), "", now).
		WillReturnRows(bookingRows(b))
	mock.ExpectExec("INSERT INTO booking_events").
		WithArgs(pgxmock.AnyArg(), "booking.completed.v1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	store := NewStore(mock, events.NewOutboxStore(mock))
	evt := events.BookingCompletedV1{BookingID: b.ID}
	if _, err := store.UpdateStatus(context.Background(), b.ID, StatusConfirmed, StatusCompleted, "", now, evt); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
