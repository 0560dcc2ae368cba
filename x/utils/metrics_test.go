package utils

import (
	"context"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	db := store.MemStore()
	tx := &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: "escrow/approve"}}

	ok := ledgertest.Decorate(&ledgertest.Handler{}, m)
	denied := ledgertest.Decorate(&ledgertest.Handler{DeliverErr: errors.ErrUnauthorized}, m)

	_, err := ok.Deliver(context.Background(), db, tx)
	assert.Nil(t, err)
	_, err = ok.Check(context.Background(), db, tx)
	assert.Nil(t, err)
	_, err = denied.Deliver(context.Background(), db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.total.WithLabelValues("escrow/approve", "deliver", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.total.WithLabelValues("escrow/approve", "check", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.total.WithLabelValues("escrow/approve", "deliver", "unauthorized")))
}
