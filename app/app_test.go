package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/iov-one/ledger/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ledger.Event
}

func (p *recordingPublisher) Publish(events ...ledger.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
}

// pathDecoder turns the raw transaction into a message path.
func pathDecoder(raw []byte) (ledger.Tx, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "empty transaction")
	}
	return &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: string(raw)}}, nil
}

type genesisRecorder struct {
	opts ledger.Options
}

func (g *genesisRecorder) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	g.opts = opts
	return db.Set([]byte("genesis"), []byte("loaded"))
}

func TestBaseApp(t *testing.T) {
	const chainID = "test-chain-1"

	router := NewRouter()
	router.Handle("test/write", ledgertest.WriteHandler{Key: []byte("k"), Value: []byte("v")})
	router.Handle("test/fail", ledgertest.WriteHandler{Key: []byte("x"), Value: []byte("y"), Err: errors.ErrAmount})
	router.Handle("test/event", &ledgertest.Handler{DeliverResult: ledger.DeliverResult{
		Data:   []byte{1},
		Events: []ledger.Event{{Kind: "escrow.approved", Key: []byte{1}}},
	}})
	handler := ChainDecorators(utils.NewSavepoint().OnDeliver()).WithHandler(router)

	qr := ledger.NewQueryRouter()
	db := iavl.MockCommitStore()
	store, err := NewStoreApp("test", db, qr, context.Background())
	require.NoError(t, err)

	pub := &recordingPublisher{}
	gen := &genesisRecorder{}
	store.WithInit(gen).WithPublisher(pub)
	app := NewBaseApp(store, pathDecoder, handler, false)

	app.InitChain(abci.RequestInitChain{
		ChainId:       chainID,
		AppStateBytes: []byte(`{"cash": [], "escrow": []}`),
	})
	assert.Equal(t, chainID, app.GetChainID())
	assert.Contains(t, gen.opts, "cash")

	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, Time: time.Now()}})

	res := app.DeliverTx([]byte("test/write"))
	assert.Equal(t, uint32(0), res.Code, res.Log)

	res = app.DeliverTx([]byte("test/fail"))
	assert.Equal(t, errors.ErrAmount.ABCICode(), res.Code)

	res = app.DeliverTx([]byte("test/unknown"))
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)

	res = app.DeliverTx(nil)
	assert.Equal(t, errors.ErrInput.ABCICode(), res.Code)

	res = app.DeliverTx([]byte("test/event"))
	assert.Equal(t, uint32(0), res.Code, res.Log)
	assert.Equal(t, []byte{1}, res.Data)

	// Nothing is published before the block is committed.
	assert.Empty(t, pub.events)

	app.EndBlock(abci.RequestEndBlock{Height: 1})
	commit := app.Commit()
	assert.NotEmpty(t, commit.Data)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "escrow.approved", pub.events[0].Kind)
	assert.Equal(t, int64(1), pub.events[0].Height)

	val, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)
	val, err = db.Get([]byte("x"))
	require.NoError(t, err)
	assert.Nil(t, val)
	val, err = db.Get([]byte("genesis"))
	require.NoError(t, err)
	assert.Equal(t, []byte("loaded"), val)

	info := app.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)

	check := app.CheckTx([]byte("test/write"))
	assert.Equal(t, uint32(0), check.Code, check.Log)
}

func TestStoreAppRestart(t *testing.T) {
	db := iavl.MockCommitStore()
	first, err := NewStoreApp("test", db, ledger.NewQueryRouter(), context.Background())
	require.NoError(t, err)
	first.InitChain(abci.RequestInitChain{ChainId: "restart-chain", AppStateBytes: []byte(`{}`)})
	first.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})
	first.Commit()

	second, err := NewStoreApp("test", db, ledger.NewQueryRouter(), context.Background())
	require.NoError(t, err)
	assert.Equal(t, "restart-chain", second.GetChainID())

	assert.Panics(t, func() {
		second.InitChain(abci.RequestInitChain{ChainId: "other-chain", AppStateBytes: []byte(`{}`)})
	})
}

func TestQuery(t *testing.T) {
	qr := ledger.NewQueryRouter()
	qr.Register("/values", staticQuery{})

	store, err := NewStoreApp("test", iavl.MockCommitStore(), qr, context.Background())
	require.NoError(t, err)

	res := store.Query(abci.RequestQuery{Path: "/values", Data: []byte("a")})
	require.Equal(t, uint32(0), res.Code, res.Log)

	var keys, values ResultSet
	require.NoError(t, ledger.Unmarshal(res.Key, &keys))
	require.NoError(t, ledger.Unmarshal(res.Value, &values))
	models, err := JoinResults(&keys, &values)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Model{{Key: []byte("a"), Value: []byte("value")}}, models)

	res = store.Query(abci.RequestQuery{Path: "/missing"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)
}

type staticQuery struct{}

func (staticQuery) Query(db ledger.ReadOnlyKVStore, mod string, data []byte) ([]ledger.Model, error) {
	return ledger.Pair(data, []byte("value")), nil
}
