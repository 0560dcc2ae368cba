package store

import "github.com/iov-one/ledger"

// Storage interfaces are declared in the root package. Aliases keep the
// names short in this package.
type (
	ReadOnlyKVStore  = ledger.ReadOnlyKVStore
	SetDeleter       = ledger.SetDeleter
	KVStore          = ledger.KVStore
	Iterator         = ledger.Iterator
	CacheableKVStore = ledger.CacheableKVStore
	KVCacheWrap      = ledger.KVCacheWrap
	CommitKVStore    = ledger.CommitKVStore
	CommitID         = ledger.CommitID
	Model            = ledger.Model
)

// Batch stages writes and applies them in one go.
type Batch interface {
	SetDeleter
	Write() error
	Reset()
}
