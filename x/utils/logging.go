package utils

import (
	"time"

	"github.com/iov-one/ledger"
)

// Logging logs every transaction as it passes through.
type Logging struct{}

var _ ledger.Decorator = Logging{}

// NewLogging returns a Logging decorator.
func NewLogging() Logging {
	return Logging{}
}

// Check logs failures as info and successes as debug.
func (Logging) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (*ledger.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var msg string
	if err == nil {
		msg = res.Log
	}
	logDuration(ctx, tx, start, msg, err, true)
	return res, err
}

// Deliver logs failures as error and successes as info.
func (Logging) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (*ledger.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var msg string
	if err == nil {
		msg = res.Log
	}
	logDuration(ctx, tx, start, msg, err, false)
	return res, err
}

func logDuration(ctx ledger.Context, tx ledger.Tx, start time.Time, msg string, err error, check bool) {
	logger := ledger.GetLogger(ctx).With(
		"path", ledger.GetPath(tx),
		"duration", time.Since(start)/time.Microsecond,
	)

	// An entry is written even for an empty message.
	switch {
	case err != nil && check:
		logger.Info(msg, "err", err)
	case err != nil:
		logger.Error(msg, "err", err)
	case check:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
