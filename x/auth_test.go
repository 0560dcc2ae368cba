package x_test

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/x"
)

func TestAuth(t *testing.T) {
	a := ledgertest.NewCondition()
	b := ledgertest.NewCondition()
	c := ledgertest.NewCondition()

	ctx := context.Background()
	ctxAuth := &ledgertest.CtxAuth{Key: "auth"}
	ctx = ctxAuth.SetConditions(ctx, b)
	auth := x.ChainAuth(&ledgertest.Auth{Signer: a}, ctxAuth)

	assert.Equal(t, []ledger.Condition{a, b}, auth.GetConditions(ctx))
	assert.Equal(t, []ledger.Address{a.Address(), b.Address()}, x.GetAddresses(ctx, auth))
	assert.Equal(t, a, x.MainSigner(ctx, auth))

	if !auth.HasAddress(ctx, b.Address()) {
		t.Fatal("b signed")
	}
	if auth.HasAddress(ctx, c.Address()) {
		t.Fatal("c did not sign")
	}

	all := []ledger.Address{a.Address(), b.Address(), c.Address()}
	if x.HasAllAddresses(ctx, auth, all) {
		t.Fatal("c did not sign")
	}
	if !x.HasAllAddresses(ctx, auth, all[:2]) {
		t.Fatal("a and b signed")
	}
	if !x.HasNAddresses(ctx, auth, all, 2) {
		t.Fatal("two of three signed")
	}
	if x.HasNAddresses(ctx, auth, all, 3) {
		t.Fatal("only two signed")
	}

	if x.MainSigner(context.Background(), x.ChainAuth()) != nil {
		t.Fatal("no signer expected")
	}
}
