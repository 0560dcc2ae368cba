package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

const optKey = "escrow"

// Minter credits funds to an account.
type Minter interface {
	Mint(db ledger.KVStore, dst ledger.Address, amount uint64) error
}

// GenesisEscrow is a single entry of the genesis "escrow" section.
type GenesisEscrow struct {
	Arbiter     ledger.Address `json:"arbiter"`
	Beneficiary ledger.Address `json:"beneficiary"`
	Depositor   ledger.Address `json:"depositor"`
	Amount      uint64         `json:"amount"`
	Approved    bool           `json:"approved"`
}

// Initializer loads escrow instances from the genesis file. Funds of
// unapproved instances are minted into their accounts.
type Initializer struct {
	Minter Minter
}

var _ ledger.Initializer = Initializer{}

// FromGenesis stores every listed escrow under the next sequence id.
func (i Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var escrows []GenesisEscrow
	if err := opts.ReadOptions(optKey, &escrows); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	bucket := NewBucket()
	for n, g := range escrows {
		esc, err := Construct(g.Arbiter, g.Beneficiary, g.Depositor, g.Amount)
		if err != nil {
			return errors.Wrapf(err, "escrow %d", n)
		}
		esc.IsApproved = g.Approved

		id, err := escrowSeq.NextVal(db)
		if err != nil {
			return errors.Wrap(err, "cannot acquire id")
		}
		esc.Address = Condition(id).Address()
		if _, err := bucket.Put(db, id, esc); err != nil {
			return errors.Wrapf(err, "escrow %d", n)
		}
		if g.Approved {
			continue
		}
		if err := i.Minter.Mint(db, esc.Address, g.Amount); err != nil {
			return errors.Wrapf(err, "escrow %d funds", n)
		}
	}
	return nil
}
