package orm

import (
	"reflect"
	"regexp"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
)

// Model is an entity that can be stored in a ModelBucket.
type Model interface {
	ledger.Persistent
	Validate() error
}

// ModelSlicePtr is a pointer to a slice of models, ie. *[]*escrow.Escrow.
type ModelSlicePtr interface{}

// ModelBucket stores models of a single type.
type ModelBucket interface {
	// One loads the model stored under key into dest. ErrNotFound is
	// returned if there is no such model.
	One(db ledger.ReadOnlyKVStore, key []byte, dest Model) error

	// ByIndex loads into dest all models indexed under given value and
	// returns their keys.
	ByIndex(db ledger.ReadOnlyKVStore, indexName string, value []byte, dest ModelSlicePtr) ([][]byte, error)

	// Put validates and saves the model. If key is nil, the next value of
	// the bucket id sequence is used. The key is returned.
	Put(db ledger.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes the model stored under key.
	Delete(db ledger.KVStore, key []byte) error

	// Has returns ErrNotFound if there is no model under key.
	Has(db ledger.ReadOnlyKVStore, key []byte) error

	// Register exposes the bucket and its indexes to queries.
	Register(name string, r ledger.QueryRouter)
}

// ModelBucketOption configures a ModelBucket.
type ModelBucketOption func(*modelBucket)

// WithIndex adds a secondary index.
func WithIndex(name string, fn Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic("index already registered: " + name)
		}
		mb.indexes[name] = newIndex(mb.name, name, fn, unique)
		mb.indexOrder = append(mb.indexOrder, name)
	}
}

// WithIDSequence sets the sequence used to generate keys.
func WithIDSequence(s Sequence) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.idSeq = s
	}
}

var bucketName = regexp.MustCompile(`^[a-z_]{3,20}$`)

// NewModelBucket returns a bucket storing models of the same type as
// model, under the name namespace.
func NewModelBucket(name string, model Model, opts ...ModelBucketOption) ModelBucket {
	if !bucketName.MatchString(name) {
		panic("invalid bucket name: " + name)
	}
	tp := reflect.TypeOf(model)
	if tp.Kind() != reflect.Ptr {
		panic("model must be a pointer")
	}
	mb := &modelBucket{
		name:    name,
		prefix:  []byte(name + ":"),
		model:   tp.Elem(),
		idSeq:   NewSequence(name, "id"),
		indexes: make(map[string]index),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name       string
	prefix     []byte
	model      reflect.Type
	idSeq      Sequence
	indexes    map[string]index
	indexOrder []string
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) dbKey(key []byte) []byte {
	out := make([]byte, 0, len(mb.prefix)+len(key))
	return append(append(out, mb.prefix...), key...)
}

func (mb *modelBucket) newModel() Model {
	return reflect.New(mb.model).Interface().(Model)
}

func (mb *modelBucket) load(db ledger.ReadOnlyKVStore, key []byte) (Model, error) {
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	m := mb.newModel()
	if err := ledger.Unmarshal(raw, m); err != nil {
		return nil, errors.Wrapf(err, "%s %X", mb.name, key)
	}
	return m, nil
}

func (mb *modelBucket) One(db ledger.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != reflect.PtrTo(mb.model) {
		return errors.Wrapf(errors.ErrType, "%T cannot hold %s", dest, mb.model)
	}
	m, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if m == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(m).Elem())
	return nil
}

func (mb *modelBucket) ByIndex(db ledger.ReadOnlyKVStore, indexName string, value []byte, dest ModelSlicePtr) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "no index %q in %s", indexName, mb.name)
	}
	dst := reflect.ValueOf(dest)
	if dst.Kind() != reflect.Ptr || dst.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrap(errors.ErrType, "destination must be a pointer to a slice")
	}
	slice := dst.Elem()
	elemPtr := slice.Type().Elem() == reflect.PtrTo(mb.model)
	if !elemPtr && slice.Type().Elem() != mb.model {
		return nil, errors.Wrapf(errors.ErrType, "%T cannot hold %s", dest, mb.model)
	}

	keys, err := idx.keys(db, value)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		m, err := mb.load(db, key)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, errors.Wrapf(errors.ErrHuman, "index %q points to a missing %X", indexName, key)
		}
		v := reflect.ValueOf(m)
		if !elemPtr {
			v = v.Elem()
		}
		slice = reflect.Append(slice, v)
	}
	dst.Elem().Set(slice)
	return keys, nil
}

func (mb *modelBucket) Put(db ledger.KVStore, key []byte, m Model) ([]byte, error) {
	if reflect.TypeOf(m) != reflect.PtrTo(mb.model) {
		return nil, errors.Wrapf(errors.ErrType, "cannot store %T in %s", m, mb.name)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}
	var prev Model
	if key != nil {
		var err error
		if prev, err = mb.load(db, key); err != nil {
			return nil, err
		}
	}
	for _, name := range mb.indexOrder {
		if err := mb.indexes[name].checkUnique(db, key, m); err != nil {
			return nil, err
		}
	}
	if key == nil {
		next, err := mb.idSeq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "id sequence")
		}
		key = next
	}

	for _, name := range mb.indexOrder {
		if err := mb.indexes[name].update(db, key, prev, m); err != nil {
			return nil, err
		}
	}
	raw, err := ledger.Marshal(m)
	if err != nil {
		return nil, err
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return key, nil
}

func (mb *modelBucket) Delete(db ledger.KVStore, key []byte) error {
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	for _, name := range mb.indexOrder {
		if err := mb.indexes[name].update(db, key, prev, nil); err != nil {
			return err
		}
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (mb *modelBucket) Has(db ledger.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	return nil
}

// Register exposes the bucket under /<name> and each index under
// /<name>/<index>.
func (mb *modelBucket) Register(name string, r ledger.QueryRouter) {
	root := "/" + name
	r.Register(root, bucketQuery{mb: mb})
	for idxName, idx := range mb.indexes {
		r.Register(root+"/"+idxName, indexQuery{mb: mb, idx: idx})
	}
}

type bucketQuery struct {
	mb *modelBucket
}

func (q bucketQuery) Query(db ledger.ReadOnlyKVStore, mod string, data []byte) ([]ledger.Model, error) {
	switch mod {
	case ledger.KeyQueryMod:
		key := q.mb.dbKey(data)
		val, err := db.Get(key)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		if val == nil {
			return nil, nil
		}
		return ledger.Pair(key, val), nil
	case ledger.PrefixQueryMod:
		prefix := q.mb.dbKey(data)
		it, err := db.Iterator(prefix, store.PrefixEnd(prefix))
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		return store.ReadAll(it)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

type indexQuery struct {
	mb  *modelBucket
	idx index
}

func (q indexQuery) Query(db ledger.ReadOnlyKVStore, mod string, data []byte) ([]ledger.Model, error) {
	if mod != ledger.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
	keys, err := q.idx.keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]ledger.Model, 0, len(keys))
	for _, k := range keys {
		key := q.mb.dbKey(k)
		val, err := db.Get(key)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		res = append(res, ledger.Model{Key: key, Value: val})
	}
	return res, nil
}
