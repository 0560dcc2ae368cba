package indexer

import (
	"context"
	"encoding/hex"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/client"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/tendermint/tendermint/libs/log"
)

// Source is the part of the rpc client used by the indexer.
type Source interface {
	SubscribeTx(ctx context.Context, query client.TxQuery, results chan<- client.CommitResult, options ...client.Option) error
	AbciQuery(path string, data []byte) ([]ledger.Model, error)
}

var _ Source = (*client.Client)(nil)

// Indexer writes the state of every deployed escrow into a store.
type Indexer struct {
	src     Source
	store   Store
	logger  log.Logger
	metrics *Metrics
}

// New returns an indexer. Metrics may be nil.
func New(src Source, store Store, logger log.Logger, metrics *Metrics) *Indexer {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Indexer{
		src:     src,
		store:   store,
		logger:  logger.With("module", "indexer"),
		metrics: metrics,
	}
}

// Run indexes escrow transactions until ctx is done. Escrows that already
// exist when Run starts are loaded first.
func (ix *Indexer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Subscribe before the backfill so that nothing committed in between
	// is missed.
	deploys := make(chan client.CommitResult, 16)
	approvals := make(chan client.CommitResult, 16)
	if err := ix.src.SubscribeTx(ctx, client.QueryTxByTag("action", "deploy"), deploys); err != nil {
		return errors.Wrap(err, "subscribe deploy")
	}
	if err := ix.src.SubscribeTx(ctx, client.QueryTxByTag("action", "approve"), approvals); err != nil {
		return errors.Wrap(err, "subscribe approve")
	}

	if err := ix.Backfill(ctx); err != nil {
		return err
	}

	for {
		var (
			res client.CommitResult
			ok  bool
		)
		select {
		case <-ctx.Done():
			return nil
		case res, ok = <-deploys:
		case res, ok = <-approvals:
		}
		if !ok {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(errors.ErrNetwork, "subscription closed")
		}
		if err := ix.handle(ctx, res); err != nil {
			ix.metrics.incError()
			ix.logger.Error("cannot index transaction", "tx", res.ID, "height", res.Height, "err", err)
		}
	}
}

// Backfill loads every escrow currently stored on chain.
func (ix *Indexer) Backfill(ctx context.Context) error {
	models, err := ix.src.AbciQuery("/escrows?prefix", nil)
	if err != nil {
		return errors.Wrap(err, "list escrows")
	}
	for _, m := range models {
		var esc escrow.Escrow
		if err := ledger.Unmarshal(m.Value, &esc); err != nil {
			return errors.Wrap(err, "decode escrow")
		}
		if err := ix.store.Upsert(ctx, toRecord(escrow.IDFromKey(m.Key), &esc, 0)); err != nil {
			return err
		}
	}
	ix.metrics.setRecords(len(models))
	ix.logger.Info("backfill done", "escrows", len(models))
	return nil
}

// handle indexes a single transaction. Failed transactions changed nothing
// and are skipped.
func (ix *Indexer) handle(ctx context.Context, res client.CommitResult) error {
	if res.Err != nil || res.Result == nil {
		return nil
	}
	var rawID, action string
	for _, tag := range res.Result.Tags {
		switch string(tag.Key) {
		case "escrow":
			rawID = string(tag.Value)
		case "action":
			action = string(tag.Value)
		}
	}
	if rawID == "" {
		return nil
	}
	id, err := hex.DecodeString(rawID)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "escrow tag %q", rawID)
	}
	if err := ix.Sync(ctx, id, res.Height); err != nil {
		return err
	}
	ix.metrics.incEvent(action)
	ix.metrics.setHeight(res.Height)
	ix.logger.Debug("indexed", "escrow", rawID, "action", action, "height", res.Height)
	return nil
}

// Sync reads the escrow from chain and writes it into the store.
func (ix *Indexer) Sync(ctx context.Context, id []byte, height int64) error {
	models, err := ix.src.AbciQuery("/escrows", id)
	if err != nil {
		return errors.Wrapf(err, "query escrow %s", escrow.FormatID(id))
	}
	if len(models) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "escrow %s", escrow.FormatID(id))
	}
	var esc escrow.Escrow
	if err := ledger.Unmarshal(models[0].Value, &esc); err != nil {
		return errors.Wrap(err, "decode escrow")
	}
	return ix.store.Upsert(ctx, toRecord(id, &esc, height))
}

func toRecord(id []byte, esc *escrow.Escrow, height int64) Record {
	return Record{
		ID:          escrow.FormatID(id),
		Address:     esc.Address.String(),
		Arbiter:     esc.Arbiter.String(),
		Beneficiary: esc.Beneficiary.String(),
		Depositor:   esc.Depositor.String(),
		Value:       esc.DepositValue,
		Approved:    esc.IsApproved,
		Height:      height,
	}
}
