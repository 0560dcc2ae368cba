package cash

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// Controller moves funds between accounts.
type Controller interface {
	// Balance returns the balance of addr. An unknown address has none.
	Balance(db ledger.ReadOnlyKVStore, addr ledger.Address) (uint64, error)
	// Transfer moves amount from src to dst. ErrAmount is returned if src
	// does not hold enough funds, in which case nothing changes.
	Transfer(db ledger.KVStore, src, dst ledger.Address, amount uint64) error
	// Mint credits amount to dst out of thin air.
	Mint(db ledger.KVStore, dst ledger.Address, amount uint64) error
}

// BaseController stores wallets in a bucket.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller backed by the wallet bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

func (c BaseController) Balance(db ledger.ReadOnlyKVStore, addr ledger.Address) (uint64, error) {
	if err := addr.Validate(); err != nil {
		return 0, errors.Wrap(err, "address")
	}
	w, err := c.load(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

func (c BaseController) Transfer(db ledger.KVStore, src, dst ledger.Address, amount uint64) error {
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dst.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	sender, err := c.load(db, src)
	if err != nil {
		return err
	}
	remaining, err := coin.Sub(sender.Balance, amount)
	if err != nil {
		return errors.Wrapf(err, "balance of %s", src)
	}
	if amount == 0 || src.Equals(dst) {
		return nil
	}

	recipient, err := c.load(db, dst)
	if err != nil {
		return err
	}
	credited, err := coin.Add(recipient.Balance, amount)
	if err != nil {
		return errors.Wrapf(err, "balance of %s", dst)
	}

	// Both updates are computed before anything is written.
	sender.Balance = remaining
	recipient.Balance = credited
	if _, err := c.bucket.Put(db, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	if _, err := c.bucket.Put(db, dst, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

func (c BaseController) Mint(db ledger.KVStore, dst ledger.Address, amount uint64) error {
	if err := dst.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	w, err := c.load(db, dst)
	if err != nil {
		return err
	}
	w.Balance, err = coin.Add(w.Balance, amount)
	if err != nil {
		return errors.Wrapf(err, "balance of %s", dst)
	}
	if _, err := c.bucket.Put(db, dst, w); err != nil {
		return errors.Wrap(err, "save wallet")
	}
	return nil
}

func (c BaseController) load(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Metadata: ledger.NewMetadata()}, nil
	default:
		return nil, errors.Wrap(err, "load wallet")
	}
}
