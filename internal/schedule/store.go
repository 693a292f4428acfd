package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RuleSource reads working-hours rules. The availability service depends on
// this rather than the concrete store so a cache can be layered in front.
type RuleSource interface {
	GetRule(ctx context.Context, providerID uuid.UUID, weekday time.Weekday) (Rule, bool, error)
}

// Store provides persistence for working_hours rows.
type Store struct {
	db DB
}

// NewStore creates a working-hours store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// GetRule returns the rule for a provider/weekday. The second return is false
// when the provider does not work that day.
func (s *Store) GetRule(ctx context.Context, providerID uuid.UUID, weekday time.Weekday) (Rule, bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT provider_id, weekday, open_minute, close_minute
		FROM working_hours
		WHERE provider_id = $1 AND weekday = $2`, providerID, int(weekday))

	var r Rule
	var wd, open, clos int
	if err := row.Scan(&r.ProviderID, &wd, &open, &clos); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rule{}, false, nil
		}
		return Rule{}, false, fmt.Errorf("schedule: get rule: %w", err)
	}
	r.Weekday = time.Weekday(wd)
	r.Open = MinuteOfDay(open)
	r.Close = MinuteOfDay(clos)
	return r, true, nil
}

// ListRules returns all rules for a provider ordered by weekday.
func (s *Store) ListRules(ctx context.Context, providerID uuid.UUID) ([]Rule, error) {
	rows, err := s.db.Query(ctx, `
		SELECT provider_id, weekday, open_minute, close_minute
		FROM working_hours
		WHERE provider_id = $1
		ORDER BY weekday`, providerID)
	if err != nil {
		return nil, fmt.Errorf("schedule: list rules: %w", err)
	}
	defer rows.Close()

	var result []Rule
	for rows.Next() {
		var r Rule
		var wd, open, clos int
		if err := rows.Scan(&r.ProviderID, &wd, &open, &clos); err != nil {
			return nil, fmt.Errorf("schedule: scan rule: %w", err)
		}
		r.Weekday = time.Weekday(wd)
		r.Open = MinuteOfDay(open)
		r.Close = MinuteOfDay(clos)
		result = append(result, r)
	}
	return result, rows.Err()
}

// UpsertRule inserts or replaces the rule for a provider/weekday.
func (s *Store) UpsertRule(ctx context.Context, r Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO working_hours (provider_id, weekday, open_minute, close_minute, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (provider_id, weekday)
		DO UPDATE SET open_minute = EXCLUDED.open_minute, close_minute = EXCLUDED.close_minute, updated_at = now()`,
		r.ProviderID, int(r.Weekday), int(r.Open), int(r.Close),
	)
	if err != nil {
		return fmt.Errorf("schedule: upsert rule: %w", err)
	}
	return nil
}

// DeleteRule removes the rule for a provider/weekday, marking the day off.
func (s *Store) DeleteRule(ctx context.Context, providerID uuid.UUID, weekday time.Weekday) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM working_hours
		WHERE provider_id = $1 AND weekday = $2`, providerID, int(weekday))
	if err != nil {
		return fmt.Errorf("schedule: delete rule: %w", err)
	}
	return nil
}
