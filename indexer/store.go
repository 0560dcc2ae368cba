package indexer

import (
	"context"
	"sort"
	"sync"

	"github.com/iov-one/ledger/errors"
)

// Record is the indexed state of a single escrow. Addresses are kept in
// their checksummed hex form.
type Record struct {
	ID          string `json:"id"`
	Address     string `json:"address"`
	Arbiter     string `json:"arbiter"`
	Beneficiary string `json:"beneficiary"`
	Depositor   string `json:"depositor"`
	Value       uint64 `json:"value,string"`
	Approved    bool   `json:"approved"`
	// Height is the last block height the record was updated at.
	Height int64 `json:"height"`
}

// merge returns the record as stored after writing r over existing.
func merge(existing, r Record) Record {
	if existing.Approved {
		r.Approved = true
	}
	if existing.Height > r.Height {
		r.Height = existing.Height
	}
	return r
}

// Store persists escrow records.
type Store interface {
	// Upsert inserts the record or updates the one with the same id.
	Upsert(ctx context.Context, r Record) error
	// Get returns ErrNotFound for an unknown id.
	Get(ctx context.Context, id string) (*Record, error)
	// List returns all records ordered by id.
	List(ctx context.Context) ([]Record, error)
}

// MemoryStore is mostly for testing.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Record
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]Record),
	}
}

func (m *MemoryStore) Upsert(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[r.ID]; ok {
		r = merge(existing, r)
	}
	m.data[r.ID] = r
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.data[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "escrow %s", id)
	}
	return &r, nil
}

func (m *MemoryStore) List(_ context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Record, 0, len(m.data))
	for _, r := range m.data {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
