package orm

import (
	"bytes"
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
)

// Indexer returns the value a model is indexed under. A nil value means the
// model is not indexed.
type Indexer func(Model) ([]byte, error)

// index keeps, for every indexed value, the set of primary keys of the
// models that share it. Each pair is a separate entry so that an index over
// many models does not grow a single value.
type index struct {
	name   string
	prefix []byte
	unique bool
	fn     Indexer
}

func newIndex(bucket, name string, fn Indexer, unique bool) index {
	return index{
		name:   name,
		prefix: []byte("_i." + bucket + "_" + name + ":"),
		unique: unique,
		fn:     fn,
	}
}

// valuePrefix returns the prefix of all entries of given value. The length
// of the value is part of the prefix so that a value is never the prefix of
// another value.
func (i index) valuePrefix(value []byte) []byte {
	out := make([]byte, 0, len(i.prefix)+2+len(value))
	out = append(out, i.prefix...)
	var l [2]byte
	binary.BigEndian.PutUint16(l[:], uint16(len(value)))
	out = append(out, l[:]...)
	return append(out, value...)
}

func (i index) entryKey(value, primary []byte) []byte {
	return append(i.valuePrefix(value), primary...)
}

// update moves the reference to primary from the prev value to the next
// value. A nil model means insert or delete.
func (i index) update(db ledger.KVStore, primary []byte, prev, next Model) error {
	var prevVal, nextVal []byte
	var err error
	if prev != nil {
		if prevVal, err = i.fn(prev); err != nil {
			return errors.Wrapf(err, "index %q", i.name)
		}
	}
	if next != nil {
		if nextVal, err = i.fn(next); err != nil {
			return errors.Wrapf(err, "index %q", i.name)
		}
	}
	if prev != nil && next != nil && bytes.Equal(prevVal, nextVal) {
		return nil
	}

	if prevVal != nil {
		if err := db.Delete(i.entryKey(prevVal, primary)); err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	if nextVal == nil {
		return nil
	}
	if err := db.Set(i.entryKey(nextVal, primary), []byte{}); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// checkUnique returns ErrDuplicate if a unique index already references a
// model other than primary under the value of next.
func (i index) checkUnique(db ledger.ReadOnlyKVStore, primary []byte, next Model) error {
	if !i.unique {
		return nil
	}
	val, err := i.fn(next)
	if err != nil {
		return errors.Wrapf(err, "index %q", i.name)
	}
	if val == nil {
		return nil
	}
	keys, err := i.keys(db, val)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if !bytes.Equal(k, primary) {
			return errors.Wrapf(errors.ErrDuplicate, "index %q value %X", i.name, val)
		}
	}
	return nil
}

// keys returns primary keys of all models indexed under value.
func (i index) keys(db ledger.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	prefix := i.valuePrefix(value)
	it, err := db.Iterator(prefix, store.PrefixEnd(prefix))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	models, err := store.ReadAll(it)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, len(models))
	for n, m := range models {
		keys[n] = m.Key[len(prefix):]
	}
	return keys, nil
}
