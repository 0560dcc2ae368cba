package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Publisher receives the events of every committed block.
type Publisher interface {
	Publish(events ...ledger.Event)
}

// StoreApp contains the data store and everything needed to answer queries
// and to commit blocks.
//
// ABCI calls that carry no user input (InitChain, BeginBlock, Commit) have
// no way to report an error gracefully, so failures there panic.
type StoreApp struct {
	logger log.Logger

	// name is returned from abci.Info.
	name string

	store       *CommitStore
	initializer ledger.Initializer
	queryRouter ledger.QueryRouter
	publisher   Publisher
	debug       bool

	// chainID is loaded from the store, or set once on InitChain.
	chainID string

	// pending holds the events of the current block until it is
	// committed.
	pending []ledger.Event

	// baseContext is valid for the lifetime of the app.
	baseContext ledger.Context

	// blockContext is valid for the current block, reset on BeginBlock.
	blockContext ledger.Context
}

// NewStoreApp loads the latest state from db.
func NewStoreApp(name string, db ledger.CommitKVStore, queryRouter ledger.QueryRouter, baseContext ledger.Context) (*StoreApp, error) {
	cs, err := NewCommitStore(db)
	if err != nil {
		return nil, err
	}
	if baseContext == nil {
		baseContext = context.Background()
	}
	s := &StoreApp{
		name:        name,
		store:       cs,
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(cs.DeliverStore())
	if err != nil {
		return nil, err
	}
	if chainID != "" {
		s.chainID = chainID
		s.baseContext = ledger.WithChainID(s.baseContext, chainID)
	}

	info, err := cs.CommitInfo()
	if err != nil {
		return nil, errors.Wrap(err, "commit info")
	}
	s.blockContext = ledger.WithHeight(s.baseContext, info.Version)
	return s, nil
}

// GetChainID returns the chain id, empty before InitChain.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the initializer called on InitChain.
func (s *StoreApp) WithInit(init ledger.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithPublisher sets where the events of committed blocks go.
func (s *StoreApp) WithPublisher(p Publisher) *StoreApp {
	s.publisher = p
	return s
}

// WithDebug makes errors returned over ABCI carry full details.
func (s *StoreApp) WithDebug(debug bool) *StoreApp {
	s.debug = debug
	return s
}

// WithLogger sets the logger of the app and of the base context.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = ledger.WithLogger(s.baseContext, logger)
	s.logger = logger
	return s
}

// Logger returns the application logger.
func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext returns the context of the current block.
func (s *StoreApp) BlockContext() ledger.Context {
	return s.blockContext
}

// DeliverStore returns the DeliverTx cache.
func (s *StoreApp) DeliverStore() ledger.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore returns the CheckTx cache.
func (s *StoreApp) CheckStore() ledger.CacheableKVStore {
	return s.store.CheckStore()
}

// AddEvents queues events of the current block. They are published once
// the block is committed.
func (s *StoreApp) AddEvents(events []ledger.Event) {
	height, _ := ledger.GetHeight(s.blockContext)
	for _, e := range events {
		e.Height = height
		s.pending = append(s.pending, e)
	}
}

// Info returns the height and hash of the last commit.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced",
		"height", info.Version,
		"hash", fmt.Sprintf("%X", info.Hash))

	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported.
func (s *StoreApp) SetOption(req abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not implemented"}
}

/*
Query reads the committed state.

Path is "/<bucket>" or "/<bucket>/<index>", optionally followed by "?prefix"
for a prefix query. Key and Value of the response are serialized ResultSets
of the same length.
*/
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	qh, mod, err := s.queryRouter.Handler(req.Path)
	if err != nil {
		return queryError(err, s.debug)
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err, s.debug)
	}

	models, err := qh.Query(s.store.QueryStore(), mod, req.Data)
	if err != nil {
		return queryError(err, s.debug)
	}

	res := abci.ResponseQuery{Height: info.Version}
	if res.Key, err = ledger.Marshal(ResultsFromKeys(models)); err != nil {
		return queryError(err, s.debug)
	}
	if res.Value, err = ledger.Marshal(ResultsFromValues(models)); err != nil {
		return queryError(err, s.debug)
	}
	return res
}

// Commit persists the block and then publishes its events.
func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced",
		"height", id.Version,
		"hash", fmt.Sprintf("%X", id.Hash))

	events := s.pending
	s.pending = nil
	if s.publisher != nil && len(events) > 0 {
		s.publisher.Publish(events...)
	}
	return abci.ResponseCommit{Data: id.Hash}
}

// InitChain loads the genesis app state. It runs once, on the first start
// of the chain.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.parseAppState(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

func (s *StoreApp) parseAppState(data []byte, chainID string) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrImmutable, "app state already loaded for chain %q", s.chainID)
	}
	if len(data) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state not set in genesis.json, initialize the application first")
	}

	var appState ledger.Options
	if err := json.Unmarshal(data, &appState); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseContext = ledger.WithChainID(s.baseContext, chainID)
	s.blockContext = ledger.WithChainID(s.blockContext, chainID)

	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(appState, s.DeliverStore())
}

// BeginBlock sets up the context of the block.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := ledger.WithHeight(s.baseContext, req.Header.Height)
	ctx = ledger.WithBlockTime(ctx, req.Header.Time)
	s.blockContext = ctx
	return abci.ResponseBeginBlock{}
}

// EndBlock does nothing, the validator set never changes.
func (s *StoreApp) EndBlock(req abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
