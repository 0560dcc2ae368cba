package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

const (
	// EventDeployed is published when a new instance is funded.
	EventDeployed = "escrow.deployed"
	// EventApproved is published when the arbiter releases the funds.
	EventApproved = "escrow.approved"
)

// Effect is a side effect of a state transition. Effects are applied by
// the caller, in order, within the same atomic step as the state update.
type Effect interface {
	isEffect()
}

// Transfer moves Amount from one account to another.
type Transfer struct {
	From   ledger.Address
	To     ledger.Address
	Amount uint64
}

func (Transfer) isEffect() {}

// Notify emits an event of given kind about the instance.
type Notify struct {
	Kind string
}

func (Notify) isEffect() {}

// Construct returns the initial state of an escrow instance. The instance
// account address is set by the deployer, once the id is known.
// Arbiter equal to beneficiary is allowed.
func Construct(arbiter, beneficiary, depositor ledger.Address, value uint64) (*Escrow, error) {
	if err := arbiter.Validate(); err != nil {
		return nil, errors.Field("Arbiter", err, "invalid address")
	}
	if err := beneficiary.Validate(); err != nil {
		return nil, errors.Field("Beneficiary", err, "invalid address")
	}
	if err := depositor.Validate(); err != nil {
		return nil, errors.Field("Depositor", err, "invalid address")
	}
	return &Escrow{
		Metadata:     ledger.NewMetadata(),
		Arbiter:      arbiter,
		Beneficiary:  beneficiary,
		Depositor:    depositor,
		DepositValue: value,
	}, nil
}

// Approve releases the escrow. balance is the current balance of the
// instance account, all of it goes to the beneficiary.
//
// The state is not modified, an approved copy is returned together with the
// effects to apply. ErrUnauthorized is returned if caller is not the arbiter
// and ErrState if the escrow was already approved.
func Approve(state *Escrow, caller ledger.Address, balance uint64) (*Escrow, []Effect, error) {
	if !caller.Equals(state.Arbiter) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the arbiter can approve")
	}
	if state.IsApproved {
		return nil, nil, errors.Wrap(errors.ErrState, "already approved")
	}

	next := state.Copy()
	next.IsApproved = true
	effects := []Effect{
		Transfer{From: state.Address, To: state.Beneficiary, Amount: balance},
		Notify{Kind: EventApproved},
	}
	return next, effects, nil
}
