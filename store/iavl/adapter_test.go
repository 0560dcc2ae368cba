package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/ledger/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitStoreVersions(t *testing.T) {
	s := MockCommitStore()

	id, err := s.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(0), id.Version)

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("escrow"), []byte("one")))

	// Not visible before the cache is written and committed.
	val, err := s.Get([]byte("escrow"))
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, cache.Write())
	first, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Version)
	assert.NotEmpty(t, first.Hash)

	val, err = s.Get([]byte("escrow"))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), val)

	cache = s.CacheWrap()
	require.NoError(t, cache.Set([]byte("escrow"), []byte("two")))
	require.NoError(t, cache.Write())
	second, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Version)
	assert.NotEqual(t, first.Hash, second.Hash)
}

func TestCommitStoreIterator(t *testing.T) {
	s := MockCommitStore()
	cache := s.CacheWrap()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, cache.Set([]byte(k), []byte(k)))
	}
	require.NoError(t, cache.Write())
	_, err := s.Commit()
	require.NoError(t, err)

	cache = s.CacheWrap()
	require.NoError(t, cache.Delete([]byte("b")))
	it, err := cache.Iterator(nil, nil)
	require.NoError(t, err)
	models, err := store.ReadAll(it)
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, []byte("a"), models[0].Key)
	assert.Equal(t, []byte("c"), models[1].Key)
}

func TestCommitStoreReload(t *testing.T) {
	dir, err := ioutil.TempDir("", "commitstore")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	s, err := NewCommitStore(dir, "state")
	require.NoError(t, err)
	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("balance"), []byte{0x10}))
	require.NoError(t, cache.Write())
	id, err := s.Commit()
	require.NoError(t, err)
	s.Close()

	reopened, err := NewCommitStore(dir, "state")
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.LoadLatestVersion())

	latest, err := reopened.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, id, latest)
	val, err := reopened.Get([]byte("balance"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x10}, val)
}
