package ledger

import (
	"encoding/json"

	"github.com/tendermint/tendermint/libs/common"
)

// Handler processes one kind of message.
type Handler interface {
	Checker
	Deliverer
}

// Checker verifies a transaction without changing the state. It runs in the
// mempool, before the transaction is accepted into a block.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a handler to provide common functionality to many
// handlers.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is the setup side of a router.
type Registry interface {
	Handle(path string, h Handler)
}

// CheckResult is the result of a successful check.
type CheckResult struct {
	// Data is an optional, handler specific payload.
	Data []byte
	// Log is a human readable message.
	Log string
}

// DeliverResult is the result of a successful execution.
type DeliverResult struct {
	// Data is the handler specific result, ie. the id of a newly deployed
	// escrow instance.
	Data []byte
	// Log is a human readable message.
	Log string
	// Tags are indexed by the node and can be searched or subscribed to.
	Tags []common.KVPair
	// Events are published to in-process subscribers once the block that
	// contains the transaction is committed.
	Events []Event
}

// Event is a notification about a state transition, ie. an escrow
// approval. It is published only after the transition was committed.
type Event struct {
	// Kind tells what happened, ie. "escrow.approved".
	Kind string
	// Key identifies the entity the event is about.
	Key []byte
	// Height is the height of the block the transition was committed in.
	Height int64
}

// Options are the application genesis options. Each extension reads the
// section under its own key.
type Options map[string]json.RawMessage

// ReadOptions decodes the section stored under key into obj. A missing
// section is not an error.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw := o[key]
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, obj)
}

// Initializer loads an extension state from the genesis options.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
