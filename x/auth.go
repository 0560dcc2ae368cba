package x

import (
	"github.com/iov-one/ledger"
)

// Authenticator extracts the identity of the caller from the context. It
// is passed into handler constructors so that an extension never depends on
// how a caller proved who it is.
type Authenticator interface {
	// GetConditions returns all conditions fulfilled by the caller.
	GetConditions(ledger.Context) []ledger.Condition
	// HasAddress returns true if any fulfilled condition matches addr.
	HasAddress(ledger.Context, ledger.Address) bool
}

// MultiAuth combines many authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups a series of authenticators.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls: impls}
}

// GetConditions returns conditions of all authenticators.
func (m MultiAuth) GetConditions(ctx ledger.Context) []ledger.Condition {
	var res []ledger.Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

// HasAddress returns true if any authenticator accepts addr.
func (m MultiAuth) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses returns addresses of all fulfilled conditions.
func GetAddresses(ctx ledger.Context, auth Authenticator) []ledger.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]ledger.Address, len(conds))
	for i, c := range conds {
		addrs[i] = c.Address()
	}
	return addrs
}

// MainSigner returns the first fulfilled condition, or nil.
func MainSigner(ctx ledger.Context, auth Authenticator) ledger.Condition {
	conds := auth.GetConditions(ctx)
	if len(conds) == 0 {
		return nil
	}
	return conds[0]
}

// HasAllAddresses returns true if every required address is authenticated.
func HasAllAddresses(ctx ledger.Context, auth Authenticator, required []ledger.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasNAddresses returns true if at least n of the required addresses are
// authenticated.
func HasNAddresses(ctx ledger.Context, auth Authenticator, required []ledger.Address, n int) bool {
	if n <= 0 {
		return true
	}
	for _, r := range required {
		if auth.HasAddress(ctx, r) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}
