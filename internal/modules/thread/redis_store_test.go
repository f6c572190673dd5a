package thread

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/ai"
	"wayfarer/internal/modules/budget"
	"wayfarer/internal/modules/trip"
	"wayfarer/internal/types"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, ttl), mr
}

func sampleThread() *Thread {
	th := New("t-morocco", time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC))
	th.Trip = trip.Record{Destination: "Morocco", Duration: "5 days", Adults: 1, Budget: "2000 USD", Interests: "history, food"}
	th.Flags = Flags{FlightSearched: true}
	th.Budget = budget.Assessment{
		FlightCost:    types.Money{Amount: 1234.5, Currency: "EUR"},
		FlightCostUSD: 1320.915,
		Carrier:       "Emirates",
		BudgetUSD:     2000,
		Remaining:     679.085,
		Status:        budget.StatusFeasible,
	}
	th.Append(
		ai.User("5 days Morocco, $2000, history and food"),
		ai.Message{Role: ai.RoleAssistant, ToolCalls: []ai.ToolCall{{ID: "c1", Name: "Travel", Args: map[string]any{"destination": "Morocco", "adults": float64(1)}}}},
		ai.Message{Role: ai.RoleTool, ToolName: "Travel", ToolCallID: "c1", Content: "Trip details received."},
		ai.Message{Role: ai.RoleTool, ToolName: "amadeus_flight_search", ToolCallID: "c2", Content: "Amadeus API is not configured.", Failed: true},
	)
	return th
}

func TestRedisStore_LoadMissing(t *testing.T) {
	store, _ := newRedisStore(t, 0)
	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_InvalidID(t *testing.T) {
	store, _ := newRedisStore(t, 0)
	_, err := store.Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.ErrorIs(t, store.Save(context.Background(), &Thread{}), ErrInvalidID)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t, 0)
	want := sampleThread()

	require.NoError(t, store.Save(ctx, want))
	got, err := store.Load(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRedisStore_SaveLoadSaveIsByteIdentical(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, 0)
	th := sampleThread()

	require.NoError(t, store.Save(ctx, th))
	first, err := mr.Get(key(th.ID))
	require.NoError(t, err)

	loaded, err := store.Load(ctx, th.ID)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, loaded))
	second, err := mr.Get(key(th.ID))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)
	th := New("", time.Now())
	require.NotEmpty(t, th.ID)

	require.NoError(t, store.Save(ctx, th))
	assert.Equal(t, time.Hour, mr.TTL(key(th.ID)))

	mr.FastForward(2 * time.Hour)
	_, err := store.Load(ctx, th.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_NoTTLKeepsThreads(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, 0)
	th := New("keep", time.Now())
	require.NoError(t, store.Save(ctx, th))

	assert.Equal(t, time.Duration(0), mr.TTL(key(th.ID)))
}

func TestThread_AppendAndLast(t *testing.T) {
	th := New("x", time.Now())
	_, ok := th.Last()
	assert.False(t, ok)

	th.Append(ai.User("hi"), ai.System("plan"))
	last, ok := th.Last()
	require.True(t, ok)
	assert.Equal(t, ai.RoleSystem, last.Role)
}
