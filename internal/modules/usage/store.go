package usage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles plan_usage persistence.
type Store struct {
	db        *pgxpool.Pool
	allowance int
	now       func() time.Time
}

// NewStore returns a Store granting allowance turns per month.
func NewStore(db *pgxpool.Pool, allowance int) *Store {
	if allowance <= 0 {
		allowance = DefaultMonthlyTurns
	}
	return &Store{db: db, allowance: allowance, now: time.Now}
}

func (s *Store) month() string {
	return s.now().UTC().Format(monthLayout)
}

// Consume atomically checks the monthly quota and deducts one turn. The
// counter is reset to the allowance when last_reset_month is behind the
// current month. Returns ErrQuotaExceeded when no row is updated (quota
// exhausted or caller absent).
func (s *Store) Consume(ctx context.Context, uid string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE plan_usage SET
			turns_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE turns_remaining - 1 END,
			last_reset_month = $1
		WHERE uid = $3 AND (last_reset_month < $1 OR turns_remaining > 0)
	`, s.month(), s.allowance, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrQuotaExceeded
	}
	return nil
}

// EnsureCaller inserts a plan_usage row with the full allowance. Existing rows are left alone.
func (s *Store) EnsureCaller(ctx context.Context, uid string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO plan_usage (uid, turns_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, s.allowance, s.month())
	return err
}

// Remaining reports the turns left this month. Unknown callers and callers
// whose counter belongs to a past month have the full allowance.
func (s *Store) Remaining(ctx context.Context, uid string) (int, error) {
	var remaining int
	var month string
	err := s.db.QueryRow(ctx, `
		SELECT turns_remaining, last_reset_month FROM plan_usage WHERE uid = $1
	`, uid).Scan(&remaining, &month)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.allowance, nil
	}
	if err != nil {
		return 0, err
	}
	if month < s.month() {
		return s.allowance, nil
	}
	return remaining, nil
}
