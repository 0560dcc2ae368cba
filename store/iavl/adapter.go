/*
Package iavl provides a persistent, versioned store backed by a merkle
tree. The root hash of the tree is the application hash reported to
tendermint on every commit.
*/
package iavl

import (
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DefaultCacheSize is the number of tree nodes kept in memory.
const DefaultCacheSize = 10000

// CommitStore is a store that commits its state into an iavl tree.
type CommitStore struct {
	tree *iavl.MutableTree
	db   dbm.DB
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore returns a store persisted in a leveldb database named name
// in the dir directory.
func NewCommitStore(dir, name string) (*CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %s/%s: %s", dir, name, err)
	}
	return newCommitStore(db), nil
}

// MockCommitStore returns a store kept in memory.
func MockCommitStore() *CommitStore {
	return newCommitStore(dbm.NewMemDB())
}

func newCommitStore(db dbm.DB) *CommitStore {
	return &CommitStore{
		tree: iavl.NewMutableTree(db, DefaultCacheSize),
		db:   db,
	}
}

// Get returns the value from the last committed state.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

// Commit saves a new version of the tree.
func (s *CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{Version: version, Hash: hash}, nil
}

// LoadLatestVersion loads the last persisted version. After a crash during
// a commit, an older but consistent state is loaded.
func (s *CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LoadVersionForOverwriting loads the given version and drops everything
// newer. Use it to recover from a state that diverged from the chain.
func (s *CommitStore) LoadVersionForOverwriting(version int64) error {
	if _, err := s.tree.LoadVersionForOverwriting(version); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "version %d: %s", version, err)
	}
	return nil
}

// LatestVersion returns the id of the last committed state.
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// CacheWrap returns a cache over the working tree. Writing the cache stages
// changes in the tree, to be saved by the next Commit.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	r := reader{tree: s.tree}
	return store.NewBTreeCacheWrap(r, &treeBatch{tree: s.tree}, nil)
}

// Close releases the database.
func (s *CommitStore) Close() {
	s.db.Close()
}

// reader exposes the working tree as a read only store.
type reader struct {
	tree *iavl.MutableTree
}

var _ store.ReadOnlyKVStore = reader{}

func (r reader) Get(key []byte) ([]byte, error) {
	_, val := r.tree.Get(key)
	return val, nil
}

func (r reader) Has(key []byte) (bool, error) {
	return r.tree.Has(key), nil
}

func (r reader) Iterator(start, end []byte) (store.Iterator, error) {
	return r.iterate(start, end, true), nil
}

func (r reader) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return r.iterate(start, end, false), nil
}

func (r reader) iterate(start, end []byte, ascending bool) store.Iterator {
	var res []store.Model
	r.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		res = append(res, store.Model{Key: key, Value: value})
		return false
	})
	return store.NewSliceIterator(res)
}

// treeBatch stages writes and applies them to the working tree.
type treeBatch struct {
	tree *iavl.MutableTree
	ops  []store.Op
}

func (b *treeBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, store.SetOp(key, value))
	return nil
}

func (b *treeBatch) Delete(key []byte) error {
	b.ops = append(b.ops, store.DelOp(key))
	return nil
}

func (b *treeBatch) Write() error {
	defer b.Reset()
	w := treeWriter{tree: b.tree}
	for _, op := range b.ops {
		if err := op.Apply(w); err != nil {
			return err
		}
	}
	return nil
}

func (b *treeBatch) Reset() {
	b.ops = nil
}

type treeWriter struct {
	tree *iavl.MutableTree
}

func (w treeWriter) Set(key, value []byte) error {
	w.tree.Set(key, value)
	return nil
}

func (w treeWriter) Delete(key []byte) error {
	w.tree.Remove(key)
	return nil
}
