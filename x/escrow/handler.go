package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/x"
	"github.com/tendermint/tendermint/libs/common"
)

// Ledger holds the native asset balances. Escrow funds are kept in the
// account of the instance.
type Ledger interface {
	Balance(db ledger.ReadOnlyKVStore, addr ledger.Address) (uint64, error)
	Transfer(db ledger.KVStore, src, dst ledger.Address, amount uint64) error
}

// RegisterRoutes registers all handlers of this package.
func RegisterRoutes(r ledger.Registry, auth x.Authenticator, l Ledger) {
	bucket := NewBucket()
	r.Handle(DeployMsg{}.Path(), DeployHandler{auth: auth, bucket: bucket, ledger: l})
	r.Handle(ApproveMsg{}.Path(), ApproveHandler{auth: auth, bucket: bucket, ledger: l})
}

// DeployHandler creates and funds escrow instances.
type DeployHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ledger Ledger
}

var _ ledger.Handler = DeployHandler{}

// Check validates the message and that the depositor can cover the
// deposit.
func (h DeployHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	msg, depositor, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	balance, err := h.ledger.Balance(db, depositor)
	if err != nil {
		return nil, errors.Wrap(err, "depositor balance")
	}
	if balance < msg.Amount {
		return nil, errors.Wrapf(errors.ErrAmount, "depositor holds %d, deposit is %d", balance, msg.Amount)
	}
	return &ledger.CheckResult{}, nil
}

// Deliver stores a new instance and moves the deposit into its account.
// When the depositor cannot cover the deposit an error is returned and the
// caller must discard all writes.
func (h DeployHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, depositor, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}

	esc, err := Construct(msg.Arbiter, msg.Beneficiary, depositor, msg.Amount)
	if err != nil {
		return nil, err
	}
	id, err := h.nextID(db)
	if err != nil {
		return nil, err
	}
	esc.Address = Condition(id).Address()
	if _, err := h.bucket.Put(db, id, esc); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	if err := h.ledger.Transfer(db, depositor, esc.Address, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "cannot fund escrow")
	}

	ledger.GetLogger(ctx).Debug("escrow deployed", "id", FormatID(id), "value", msg.Amount)
	return &ledger.DeliverResult{
		Data:   id,
		Tags:   tags(id, "deploy", esc),
		Events: []ledger.Event{{Kind: EventDeployed, Key: id}},
	}, nil
}

// nextID acquires the next id whose account holds nothing. Accounts of
// ids not deployed yet can be credited by anyone, and such ids are skipped
// so that an instance always starts with exactly its deposit.
func (h DeployHandler) nextID(db ledger.KVStore) ([]byte, error) {
	for {
		id, err := escrowSeq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "cannot acquire id")
		}
		held, err := h.ledger.Balance(db, Condition(id).Address())
		if err != nil {
			return nil, errors.Wrap(err, "escrow balance")
		}
		if held == 0 {
			return id, nil
		}
	}
}

func (h DeployHandler) validate(ctx ledger.Context, tx ledger.Tx) (*DeployMsg, ledger.Address, error) {
	var msg DeployMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "depositor signature missing")
	}
	return &msg, signer.Address(), nil
}

// ApproveHandler releases escrow funds to the beneficiary.
type ApproveHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ledger Ledger
}

var _ ledger.Handler = ApproveHandler{}

// Check validates the message and the permission.
func (h ApproveHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	msg, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, _, err := Approve(esc, h.caller(ctx, esc), 0); err != nil {
		return nil, errors.Wrapf(err, "escrow %s", FormatID(msg.EscrowID))
	}
	return &ledger.CheckResult{}, nil
}

// Deliver flips the approval flag and moves the whole balance of the
// instance to the beneficiary.
func (h ApproveHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	balance, err := h.ledger.Balance(db, esc.Address)
	if err != nil {
		return nil, errors.Wrap(err, "escrow balance")
	}
	next, effects, err := Approve(esc, h.caller(ctx, esc), balance)
	if err != nil {
		return nil, errors.Wrapf(err, "escrow %s", FormatID(msg.EscrowID))
	}

	res := ledger.DeliverResult{
		Data: msg.EscrowID,
		Tags: tags(msg.EscrowID, "approve", next),
	}
	for _, e := range effects {
		switch e := e.(type) {
		case Transfer:
			if err := h.ledger.Transfer(db, e.From, e.To, e.Amount); err != nil {
				return nil, errors.Wrap(err, "cannot release funds")
			}
		case Notify:
			res.Events = append(res.Events, ledger.Event{Kind: e.Kind, Key: msg.EscrowID})
		default:
			return nil, errors.Wrapf(errors.ErrHuman, "unknown effect %T", e)
		}
	}
	if _, err := h.bucket.Put(db, msg.EscrowID, next); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	ledger.GetLogger(ctx).Debug("escrow approved", "id", FormatID(msg.EscrowID), "released", balance)
	return &res, nil
}

func (h ApproveHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ApproveMsg, *Escrow, error) {
	var msg ApproveMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	var esc Escrow
	if err := h.bucket.One(db, msg.EscrowID, &esc); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load escrow")
	}
	return &msg, &esc, nil
}

// caller returns the arbiter if it signed the transaction, otherwise the
// main signer.
func (h ApproveHandler) caller(ctx ledger.Context, esc *Escrow) ledger.Address {
	if h.auth.HasAddress(ctx, esc.Arbiter) {
		return esc.Arbiter
	}
	if signer := x.MainSigner(ctx, h.auth); signer != nil {
		return signer.Address()
	}
	return nil
}

func tags(id []byte, action string, esc *Escrow) []common.KVPair {
	return []common.KVPair{
		{Key: []byte("escrow"), Value: []byte(FormatID(id))},
		{Key: []byte("action"), Value: []byte(action)},
		{Key: []byte("arbiter"), Value: []byte(esc.Arbiter.String())},
		{Key: []byte("beneficiary"), Value: []byte(esc.Beneficiary.String())},
	}
}
