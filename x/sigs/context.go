package sigs

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/x"
)

type contextKey int

const contextKeySigners contextKey = iota

// withSigners is private, only this package can add signers.
func withSigners(ctx ledger.Context, signers []ledger.Condition) ledger.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate exposes the verified signers of the transaction. This is how
// the caller identity reaches a handler.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns conditions of all verified signers.
func (Authenticate) GetConditions(ctx ledger.Context) []ledger.Condition {
	val, _ := ctx.Value(contextKeySigners).([]ledger.Condition)
	return val
}

// HasAddress returns true if addr is one of the signers.
func (a Authenticate) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
