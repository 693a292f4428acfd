// Package reminder implements the periodic sweep that notifies customers of
// upcoming confirmed appointments exactly once per booking per reminder kind.
package reminder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Kind distinguishes reminder types so a booking can later receive more than
// one (e.g. a day-before and an hour-before reminder).
type Kind string

// KindUpcoming is the lead-time reminder the sweep sends today.
const KindUpcoming Kind = "upcoming"

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store records reminders as durable, uniquely-keyed rows. The conditional
// insert is what keeps overlapping sweep runs from double-sending.
type Store struct {
	db DB
}

// NewStore creates a reminder store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// AlreadySent checks whether a reminder of this kind was recorded for the
// booking.
func (s *Store) AlreadySent(ctx context.Context, bookingID uuid.UUID, kind Kind) (bool, error) {
	var exists int
	err := s.db.QueryRow(ctx,
		`SELECT 1 FROM reminder_sends WHERE booking_id = $1 AND kind = $2`,
		bookingID, string(kind)).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("reminder: check sent: %w", err)
	}
	return true, nil
}

// MarkSent records the reminder, returning false when another run already
// recorded it.
func (s *Store) MarkSent(ctx context.Context, bookingID uuid.UUID, kind Kind) (bool, error) {
	ct, err := s.db.Exec(ctx, `
		INSERT INTO reminder_sends (booking_id, kind, sent_at)
		VALUES ($1, $2, now())
		ON CONFLICT DO NOTHING`, bookingID, string(kind))
	if err != nil {
		return false, fmt.Errorf("reminder: mark sent: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
