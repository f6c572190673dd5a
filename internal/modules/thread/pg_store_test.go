package thread

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/infra"
)

// setupPostgresStore skips the test when WAYFARER_TEST_DSN is not set.
func setupPostgresStore(t *testing.T) (*PostgresStore, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("WAYFARER_TEST_DSN")
	if dsn == "" {
		t.Skip("WAYFARER_TEST_DSN not set; skipping DB-backed tests")
	}
	ctx := context.Background()
	db, err := infra.NewDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, infra.Migrate(ctx, db))
	_, err = db.Exec(ctx, "TRUNCATE TABLE threads")
	require.NoError(t, err)
	return NewPostgresStore(db), db
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	store, _ := setupPostgresStore(t)
	ctx := context.Background()

	_, err := store.Load(ctx, "t-morocco")
	assert.ErrorIs(t, err, ErrNotFound)

	want := sampleThread()
	require.NoError(t, store.Save(ctx, want))
	got, err := store.Load(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPostgresStore_SaveUpserts(t *testing.T) {
	store, db := setupPostgresStore(t)
	ctx := context.Background()

	th := sampleThread()
	require.NoError(t, store.Save(ctx, th))
	th.Flags.HotelSearched = true
	th.UpdatedAt = th.UpdatedAt.Add(time.Minute)
	require.NoError(t, store.Save(ctx, th))

	var count int
	require.NoError(t, db.QueryRow(ctx, "SELECT COUNT(*) FROM threads").Scan(&count))
	assert.Equal(t, 1, count)

	got, err := store.Load(ctx, th.ID)
	require.NoError(t, err)
	assert.True(t, got.Flags.HotelSearched)
}
