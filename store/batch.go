package store

import (
	"github.com/iov-one/ledger/errors"
)

type opKind int32

const (
	setKind opKind = iota + 1
	delKind
)

// Op is a single staged write.
type Op struct {
	kind  opKind
	key   []byte
	value []byte
}

// Apply executes the operation on given store.
func (o Op) Apply(out SetDeleter) error {
	switch o.kind {
	case setKind:
		return out.Set(o.key, o.value)
	case delKind:
		return out.Delete(o.key)
	default:
		return errors.Wrapf(errors.ErrHuman, "unknown op kind %d", o.kind)
	}
}

// SetOp returns a set operation.
func SetOp(key, value []byte) Op {
	return Op{kind: setKind, key: key, value: value}
}

// DelOp returns a delete operation.
func DelOp(key []byte) Op {
	return Op{kind: delKind, key: key}
}

// NonAtomicBatch piles up operations and executes them one by one on
// Write. Use it only on top of in-memory stores.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch returns an empty batch writing to out.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

// Set stages a set operation.
func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

// Delete stages a delete operation.
func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write applies all staged operations and resets the batch.
func (b *NonAtomicBatch) Write() error {
	defer b.Reset()
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return err
		}
	}
	return nil
}

// Reset drops all staged operations.
func (b *NonAtomicBatch) Reset() {
	b.ops = nil
}

// ShowOps returns all staged operations.
func (b *NonAtomicBatch) ShowOps() []Op {
	return b.ops
}
