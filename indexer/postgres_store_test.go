package indexer

import (
	"context"
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"github.com/iov-one/ledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStoreLifecycle(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Ping(ctx))

	id := fmt.Sprintf("%016x", time.Now().UnixNano())
	rec := Record{
		ID:          id,
		Address:     "0x0000000000000000000000000000000000000001",
		Arbiter:     "0x0000000000000000000000000000000000000002",
		Beneficiary: "0x0000000000000000000000000000000000000003",
		Depositor:   "0x0000000000000000000000000000000000000004",
		Value:       math.MaxUint64,
		Height:      7,
	}
	require.NoError(t, store.Upsert(ctx, rec))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, rec, *got)

	approved := rec
	approved.Approved = true
	approved.Height = 9
	require.NoError(t, store.Upsert(ctx, approved))

	// A stale write does not revert the approval.
	require.NoError(t, store.Upsert(ctx, rec))
	got, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, approved, *got)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, approved)

	_, err = store.Get(ctx, "missing")
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestPostgresStoreEmptyDSN(t *testing.T) {
	_, err := NewPostgresStore(context.Background(), "")
	assert.True(t, errors.ErrInput.Is(err))
}
