package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hazelbrook/bookline/internal/events"
	"github.com/hazelbrook/bookline/internal/interval"
)

// DB abstracts the pgx pool surface the store needs; satisfied by pgxpool.Pool
// and by pgxmock in tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const bookingColumns = `id, customer_id, provider_id, service_id, start_at, end_at,
	status, price_cents, COALESCE(notes, ''), COALESCE(cancellation_reason, ''), created_at, updated_at`

// Store provides persistence for bookings. Writes also record the lifecycle
// event in the outbox within the same transaction.
type Store struct {
	db     DB
	outbox *events.OutboxStore
}

// NewStore creates a booking store.
func NewStore(db DB, outbox *events.OutboxStore) *Store {
	return &Store{db: db, outbox: outbox}
}

// Create inserts a booking after re-checking, under a per-provider lock, that
// no non-cancelled booking overlaps the requested interval. The availability
// generator is advisory; this check is the correctness guarantee against two
// concurrent requests winning the same slot.
func (s *Store) Create(ctx context.Context, b *Booking, evt events.Event) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("booking: begin create: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serialize creates per provider so the overlap check and insert act as
	// one unit.
	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, b.ProviderID); err != nil {
		return fmt.Errorf("booking: acquire provider lock: %w", err)
	}

	var conflict bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE provider_id = $1
			  AND status = ANY($2)
			  AND start_at < $4
			  AND $3 < end_at
		)`, b.ProviderID, activeStatuses(), b.Interval.Start, b.Interval.End).Scan(&conflict)
	if err != nil {
		return fmt.Errorf("booking: overlap check: %w", err)
	}
	if conflict {
		return ErrSlotUnavailable
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (id, customer_id, provider_id, service_id, start_at, end_at,
			status, price_cents, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		b.ID, b.CustomerID, b.ProviderID, b.ServiceID,
		b.Interval.Start, b.Interval.End, string(b.Status), b.PriceCents, b.Notes, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("booking: insert: %w", err)
	}

	if evt != nil && s.outbox != nil {
		if _, err := s.outbox.InsertIn(ctx, tx, evt); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("booking: commit create: %w", err)
	}
	return nil
}

// Get returns a booking by id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := s.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("booking: get: %w", err)
	}
	return b, nil
}

// ListActiveOn returns a provider's bookings starting on the given calendar
// day, excluding cancelled and no-show bookings, ordered by start time.
func (s *Store) ListActiveOn(ctx context.Context, providerID uuid.UUID, date time.Time) ([]Booking, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := s.db.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE provider_id = $1
		  AND status = ANY($2)
		  AND start_at >= $3 AND start_at < $4
		ORDER BY start_at`, providerID, activeStatuses(), dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("booking: list active: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// ListBusyIntervals adapts ListActiveOn for the availability generator.
func (s *Store) ListBusyIntervals(ctx context.Context, providerID uuid.UUID, date time.Time) ([]interval.Interval, error) {
	bookings, err := s.ListActiveOn(ctx, providerID, date)
	if err != nil {
		return nil, err
	}
	busy := make([]interval.Interval, 0, len(bookings))
	for _, b := range bookings {
		busy = append(busy, b.Interval)
	}
	return busy, nil
}

// ListConfirmedStartingBetween returns confirmed bookings whose start time
// falls inside [from, to), used by the reminder sweep.
func (s *Store) ListConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]Booking, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE status = $1
		  AND start_at >= $2 AND start_at < $3
		ORDER BY start_at`, string(StatusConfirmed), from, to)
	if err != nil {
		return nil, fmt.Errorf("booking: list confirmed in window: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// UpdateStatus applies a transition guarded by the expected current status, so
// two racing actors cannot both win. Returns ErrIllegalTransition when the
// guard fails because a concurrent transition got there first.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, reason string, now time.Time, evt events.Event) (*Booking, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("booking: begin transition: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		UPDATE bookings
		SET status = $3, cancellation_reason = NULLIF($4, ''), updated_at = $5
		WHERE id = $1 AND status = $2
		RETURNING `+bookingColumns,
		id, string(from), string(to), reason, now)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIllegalTransition
		}
		return nil, fmt.Errorf("booking: transition: %w", err)
	}

	if evt != nil && s.outbox != nil {
		if _, err := s.outbox.InsertIn(ctx, tx, evt); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("booking: commit transition: %w", err)
	}
	return b, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var status string
	err := row.Scan(
		&b.ID, &b.CustomerID, &b.ProviderID, &b.ServiceID,
		&b.Interval.Start, &b.Interval.End,
		&status, &b.PriceCents, &b.Notes, &b.CancellationReason,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Status = Status(status)
	return &b, nil
}

func scanBookings(rows pgx.Rows) ([]Booking, error) {
	var result []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("booking: scan row: %w", err)
		}
		result = append(result, *b)
	}
	return result, rows.Err()
}
