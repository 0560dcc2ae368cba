package cash

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

const optKey = "cash"

// GenesisAccount is a single entry of the genesis "cash" section. The
// address is a hex string.
type GenesisAccount struct {
	Address ledger.Address `json:"address"`
	Balance uint64         `json:"balance"`
}

// Initializer loads initial balances from the genesis file.
type Initializer struct {
	ctrl Controller
}

var _ ledger.Initializer = Initializer{}

// NewInitializer returns an initializer that mints with ctrl.
func NewInitializer(ctrl Controller) Initializer {
	return Initializer{ctrl: ctrl}
}

// FromGenesis credits every listed account.
func (i Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	for n, a := range accts {
		if err := i.ctrl.Mint(db, a.Address, a.Balance); err != nil {
			return errors.Wrapf(err, "account %d", n)
		}
	}
	return nil
}
