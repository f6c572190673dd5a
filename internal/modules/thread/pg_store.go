// README: Thread store backed by PostgreSQL (jsonb state column).
package thread

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context, id string) (*Thread, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	var raw []byte
	err := s.db.QueryRow(ctx, `SELECT state FROM threads WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load thread %s: %w", id, err)
	}
	var t Thread
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode thread %s: %w", id, err)
	}
	return &t, nil
}

func (s *PostgresStore) Save(ctx context.Context, t *Thread) error {
	if err := validID(t.ID); err != nil {
		return err
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode thread %s: %w", t.ID, err)
	}
	_, err = s.db.Exec(ctx, `
        INSERT INTO threads (id, state, created_at, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE
        SET state = EXCLUDED.state,
            updated_at = EXCLUDED.updated_at`,
		t.ID, raw, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save thread %s: %w", t.ID, err)
	}
	return nil
}
