package indexer

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/client"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// fakeChain serves escrows from memory and lets the test publish
// transactions to the subscribers.
type fakeChain struct {
	mu      sync.Mutex
	escrows map[string]*escrow.Escrow
	subs    map[client.TxQuery]chan<- client.CommitResult
	ready   chan struct{}
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		escrows: make(map[string]*escrow.Escrow),
		subs:    make(map[client.TxQuery]chan<- client.CommitResult),
		ready:   make(chan struct{}),
	}
}

var _ Source = (*fakeChain)(nil)

func (f *fakeChain) SubscribeTx(ctx context.Context, query client.TxQuery, results chan<- client.CommitResult, options ...client.Option) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[query] = results
	if len(f.subs) == 2 {
		close(f.ready)
	}
	return nil
}

func (f *fakeChain) AbciQuery(path string, data []byte) ([]ledger.Model, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []ledger.Model
	for id, esc := range f.escrows {
		key := append([]byte("esc:"), id...)
		if path == "/escrows" && !bytes.Equal([]byte(id), data) {
			continue
		}
		raw, err := ledger.Marshal(esc)
		if err != nil {
			return nil, err
		}
		out = append(out, ledger.Model{Key: key, Value: raw})
	}
	return out, nil
}

func (f *fakeChain) put(id []byte, esc *escrow.Escrow) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.escrows[string(id)] = esc
}

func (f *fakeChain) publish(t testing.TB, action string, res client.CommitResult) {
	t.Helper()
	f.mu.Lock()
	ch := f.subs[client.QueryTxByTag("action", action)]
	f.mu.Unlock()
	require.NotNil(t, ch, "no subscription for %q", action)
	ch <- res
}

func escrowTx(id []byte, action string, height int64) client.CommitResult {
	return client.CommitResult{
		Height: height,
		Result: &ledger.DeliverResult{
			Tags: []common.KVPair{
				{Key: []byte("escrow"), Value: []byte(escrow.FormatID(id))},
				{Key: []byte("action"), Value: []byte(action)},
			},
		},
	}
}

func newEscrow(value uint64) *escrow.Escrow {
	return &escrow.Escrow{
		Metadata:     &ledger.Metadata{Schema: 1},
		Arbiter:      ledgertest.RandomAddress(),
		Beneficiary:  ledgertest.RandomAddress(),
		Depositor:    ledgertest.RandomAddress(),
		Address:      ledgertest.RandomAddress(),
		DepositValue: value,
	}
}

// waitFor polls the store until cond holds for the record with given id.
func waitFor(t testing.TB, store Store, id []byte, cond func(*Record) bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		r, err := store.Get(context.Background(), escrow.FormatID(id))
		if err == nil && cond(r) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("escrow %s was not indexed in time", escrow.FormatID(id))
}

func TestIndexerRun(t *testing.T) {
	chain := newFakeChain()
	store := NewMemoryStore()
	ix := New(chain, store, log.NewNopLogger(), NewMetrics(prometheus.NewRegistry()))

	first, second := orm.EncodeSequence(1), orm.EncodeSequence(2)
	deployed := newEscrow(100)
	chain.put(first, deployed)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ix.Run(ctx)
	}()
	<-chain.ready

	// Escrows created before the indexer started are backfilled.
	waitFor(t, store, first, func(r *Record) bool { return r.Value == 100 && !r.Approved })

	chain.put(second, newEscrow(5))
	chain.publish(t, "deploy", escrowTx(second, "deploy", 5))
	waitFor(t, store, second, func(r *Record) bool { return r.Height == 5 })

	approved := deployed.Copy()
	approved.IsApproved = true
	chain.put(first, approved)
	chain.publish(t, "approve", escrowTx(first, "approve", 6))
	chain.publish(t, "approve", escrowTx(first, "approve", 6))
	waitFor(t, store, first, func(r *Record) bool { return r.Approved && r.Height == 6 })

	// Failed and malformed transactions are skipped without stopping the
	// indexer.
	failed := escrowTx(orm.EncodeSequence(3), "deploy", 7)
	failed.Err = errors.ErrAmount
	chain.publish(t, "deploy", failed)
	chain.publish(t, "deploy", client.CommitResult{
		Height: 7,
		Result: &ledger.DeliverResult{
			Tags: []common.KVPair{{Key: []byte("escrow"), Value: []byte("not hex")}},
		},
	})
	chain.publish(t, "deploy", escrowTx(second, "deploy", 8))
	waitFor(t, store, second, func(r *Record) bool { return r.Height == 8 })

	all, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, deployed.Arbiter.String(), all[0].Arbiter)
	assert.True(t, all[0].Approved)
	assert.False(t, all[1].Approved)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("indexer did not stop")
	}
}

func TestIndexerSubscriptionClosed(t *testing.T) {
	chain := newFakeChain()
	ix := New(chain, NewMemoryStore(), nil, nil)

	done := make(chan error, 1)
	go func() {
		done <- ix.Run(context.Background())
	}()
	<-chain.ready

	chain.mu.Lock()
	close(chain.subs[client.QueryTxByTag("action", "deploy")])
	chain.mu.Unlock()

	select {
	case err := <-done:
		assert.True(t, errors.ErrNetwork.Is(err), "got %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("indexer did not stop")
	}
}
