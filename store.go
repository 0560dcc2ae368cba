package ledger

// ReadOnlyKVStore is the read side of a key value store.
type ReadOnlyKVStore interface {
	// Get returns nil if the key does not exist.
	Get(key []byte) ([]byte, error)

	// Has returns true if the key exists.
	Has(key []byte) (bool, error)

	// Iterator walks keys in [start, end) in ascending order. Nil start
	// or end means no bound.
	//
	// No writes may happen within the domain while an iterator exists
	// over it.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator walks keys in [start, end) in descending order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write side of a key value store.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is the store every handler operates on.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
}

// Iterator walks a range of keys.
//
//	it, err := store.Iterator(start, end)
//	...
//	defer it.Release()
//	for {
//		key, value, err := it.Next()
//		if errors.ErrIteratorDone.Is(err) {
//			break
//		}
//		...
//	}
type Iterator interface {
	// Next returns the next pair. When there are no more pairs,
	// ErrIteratorDone is returned.
	Next() (key, value []byte, err error)

	// Release frees the resources held by the iterator.
	Release()
}

// CacheableKVStore is a store that can stage writes in a cache.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a scratch pad of uncommitted writes that is visible to all
// reads done through it. Call Write to apply the writes to the parent store
// or Discard to drop them. This is what makes a message all-or-nothing.
type KVCacheWrap interface {
	CacheableKVStore

	// Write applies all staged writes to the parent store.
	Write() error

	// Discard drops all staged writes.
	Discard()
}

// CommitID identifies a committed state.
type CommitID struct {
	Version int64
	Hash    []byte
}

// CommitKVStore is a store that persists its state in versions.
type CommitKVStore interface {
	// Get returns the value from the last committed state.
	Get(key []byte) ([]byte, error)

	// CacheWrap returns a cache over the last committed state. Write on it
	// stages the changes for the next Commit.
	CacheWrap() KVCacheWrap

	// Commit persists all staged changes and returns the new version.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the last committed state.
	LoadLatestVersion() error

	// LatestVersion returns the id of the last committed state.
	LatestVersion() (CommitID, error)
}
