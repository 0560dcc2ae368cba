package store

import (
	"bytes"

	"github.com/iov-one/ledger/errors"
)

// mergeIterator combines cached items with the iterator of the parent
// store. A cached item hides a parent item with the same key, a deleted
// cached item hides it completely.
type mergeIterator struct {
	items   []keyer
	idx     int
	parent  *peekIterator
	reverse bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []keyer, parent Iterator, reverse bool) *mergeIterator {
	return &mergeIterator{
		items:   items,
		parent:  &peekIterator{it: parent},
		reverse: reverse,
	}
}

func (m *mergeIterator) Next() ([]byte, []byte, error) {
	for {
		var ours keyer
		if m.idx < len(m.items) {
			ours = m.items[m.idx]
		}
		pkey, pvalue, pok, err := m.parent.peek()
		if err != nil {
			return nil, nil, err
		}

		switch {
		case ours == nil && !pok:
			return nil, nil, errors.ErrIteratorDone
		case ours == nil:
			m.parent.advance()
			return pkey, pvalue, nil
		case pok:
			cmp := bytes.Compare(ours.Key(), pkey)
			if m.reverse {
				cmp = -cmp
			}
			if cmp > 0 {
				m.parent.advance()
				return pkey, pvalue, nil
			}
			if cmp == 0 {
				m.parent.advance()
			}
		}

		m.idx++
		if item, ok := ours.(setItem); ok {
			return item.key, item.value, nil
		}
		// Deleted in the cache, move on.
	}
}

func (m *mergeIterator) Release() {
	m.items = nil
	m.parent.it.Release()
}

// peekIterator allows to look at the next element without consuming it.
type peekIterator struct {
	it         Iterator
	key, value []byte
	loaded     bool
	done       bool
}

func (p *peekIterator) peek() ([]byte, []byte, bool, error) {
	if p.done {
		return nil, nil, false, nil
	}
	if !p.loaded {
		key, value, err := p.it.Next()
		if errors.ErrIteratorDone.Is(err) {
			p.done = true
			return nil, nil, false, nil
		}
		if err != nil {
			return nil, nil, false, err
		}
		p.key, p.value, p.loaded = key, value, true
	}
	return p.key, p.value, true, nil
}

func (p *peekIterator) advance() {
	p.loaded = false
}
