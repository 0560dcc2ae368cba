package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/x/cash"
)

// GuardedController refuses plain transfers into escrow accounts. Funds
// of an instance only move through deploy and approve, so it must wrap
// the controller of every other route that can credit an account.
type GuardedController struct {
	cash.Controller
	bucket orm.ModelBucket
}

var _ cash.Controller = GuardedController{}

// NewGuardedController wraps ctrl.
func NewGuardedController(ctrl cash.Controller) GuardedController {
	return GuardedController{Controller: ctrl, bucket: NewBucket()}
}

// Transfer returns ErrInput without writing anything if dst is the account
// of an escrow instance.
func (g GuardedController) Transfer(db ledger.KVStore, src, dst ledger.Address, amount uint64) error {
	id, err := g.escrowOf(db, dst)
	if err != nil {
		return err
	}
	if id != nil {
		return errors.Wrapf(errors.ErrInput, "%s is the account of escrow %s", dst, FormatID(id))
	}
	return g.Controller.Transfer(db, src, dst, amount)
}

// escrowOf returns the id of the instance owning addr, or nil.
func (g GuardedController) escrowOf(db ledger.ReadOnlyKVStore, addr ledger.Address) ([]byte, error) {
	if len(addr) == 0 {
		return nil, nil
	}
	var found []*Escrow
	keys, err := g.bucket.ByIndex(db, "address", addr, &found)
	if err != nil {
		return nil, errors.Wrap(err, "escrow lookup")
	}
	if len(keys) == 0 {
		return nil, nil
	}
	return keys[0], nil
}
