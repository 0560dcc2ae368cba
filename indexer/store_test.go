package indexer

import (
	"context"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.True(t, errors.ErrNotFound.Is(err))

	rec := Record{ID: "0000000000000002", Value: 10, Height: 4}
	require.NoError(t, store.Upsert(ctx, rec))
	require.NoError(t, store.Upsert(ctx, Record{ID: "0000000000000001", Value: 3}))

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, *got)

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "0000000000000001", all[0].ID)
	assert.Equal(t, "0000000000000002", all[1].ID)
}

func TestUpsertMerge(t *testing.T) {
	cases := map[string]struct {
		existing Record
		write    Record
		want     Record
	}{
		"newer state replaces older": {
			existing: Record{ID: "a", Height: 3},
			write:    Record{ID: "a", Approved: true, Height: 5},
			want:     Record{ID: "a", Approved: true, Height: 5},
		},
		"approval is never reverted": {
			existing: Record{ID: "a", Approved: true, Height: 5},
			write:    Record{ID: "a", Approved: false, Height: 0},
			want:     Record{ID: "a", Approved: true, Height: 5},
		},
		"redelivery keeps the record": {
			existing: Record{ID: "a", Value: 7, Approved: true, Height: 5},
			write:    Record{ID: "a", Value: 7, Approved: true, Height: 5},
			want:     Record{ID: "a", Value: 7, Approved: true, Height: 5},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			store := NewMemoryStore()
			require.NoError(t, store.Upsert(ctx, tc.existing))
			require.NoError(t, store.Upsert(ctx, tc.write))
			got, err := store.Get(ctx, tc.write.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, *got)
		})
	}
}
