//go:build integration

package kvstore

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcvault/pkg/platform/sentinel"
)

func TestPostgresStore_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("rcvault_test"),
		tcpostgres.WithUsername("rcvault"),
		tcpostgres.WithPassword("rcvault"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewPostgres(pool)
	require.NoError(t, store.EnsureSchema(ctx))
	// EnsureSchema must be idempotent.
	require.NoError(t, store.EnsureSchema(ctx))

	t.Run("missing key returns ErrNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("set then get round-trips", func(t *testing.T) {
		value := `[{"id":1,"type":"topup","amount":100}]`
		require.NoError(t, store.Set(ctx, KeyTransactions, value))
		got, err := store.Get(ctx, KeyTransactions)
		require.NoError(t, err)
		assert.Equal(t, value, got)
	})

	t.Run("set upserts over an existing key", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, KeyBalance, "10"))
		require.NoError(t, store.Set(ctx, KeyBalance, "5"))
		got, err := store.Get(ctx, KeyBalance)
		require.NoError(t, err)
		assert.Equal(t, "5", got)
	})

	t.Run("delete removes the key", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "gone", "v"))
		require.NoError(t, store.Delete(ctx, "gone"))
		_, err := store.Get(ctx, "gone")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
