package cash

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x"
	"github.com/tendermint/tendermint/libs/common"
)

// EventTransfer is emitted for every delivered SendMsg.
const EventTransfer = "cash.transfer"

// RegisterRoutes registers all handlers of this package.
func RegisterRoutes(r ledger.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, ctrl))
}

// SendHandler moves funds between accounts.
type SendHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ledger.Handler = SendHandler{}

// NewSendHandler returns a handler of SendMsg.
func NewSendHandler(auth x.Authenticator, ctrl Controller) SendHandler {
	return SendHandler{auth: auth, ctrl: ctrl}
}

// Check only validates the message and the permission.
func (h SendHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, nil
}

// Deliver moves the funds if the source holds enough.
func (h SendHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Transfer(db, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{
		Tags: []common.KVPair{
			{Key: []byte("action"), Value: []byte("send")},
			{Key: []byte("sender"), Value: []byte(msg.Source.String())},
			{Key: []byte("recipient"), Value: []byte(msg.Destination.String())},
		},
		Events: []ledger.Event{
			{Kind: EventTransfer, Key: msg.Destination},
		},
	}, nil
}

func (h SendHandler) validate(ctx ledger.Context, tx ledger.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source signature missing")
	}
	return &msg, nil
}
