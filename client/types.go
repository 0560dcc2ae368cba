package client

import (
	"fmt"

	"github.com/iov-one/ledger"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmtypes "github.com/tendermint/tendermint/types"
)

// TransactionID is the hash identifying a transaction.
type TransactionID = cmn.HexBytes

// RequestQuery mirrors the abci query request.
type RequestQuery = abci.RequestQuery

// ResponseQuery mirrors the abci query response.
type ResponseQuery = abci.ResponseQuery

// TxQuery is a tendermint query matching transactions.
type TxQuery = string

// CommitResult is the outcome of a transaction included in a block.
// Result is set on success, Err on failure.
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result *ledger.DeliverResult
	Err    error
}

// Status is the current status of the node.
type Status struct {
	Height     int64
	CatchingUp bool
}

// Header is a tendermint block header.
type Header = tmtypes.Header

type resultOrError struct {
	result *CommitResult
	err    error
}

// Option configures a subscription.
type Option interface {
	isOption()
}

// OptionCapacity sets the capacity of the subscription channel.
type OptionCapacity struct {
	Capacity int
}

func (OptionCapacity) isOption() {}

// QueryTxByID matches the transaction with given id.
func QueryTxByID(id TransactionID) TxQuery {
	return fmt.Sprintf("%s='%X'", tmtypes.TxHashKey, id)
}

// QueryTxByTag matches transactions carrying the tag.
func QueryTxByTag(key, value string) TxQuery {
	return fmt.Sprintf("%s='%s'", key, value)
}

// QueryForHeader matches all new block headers.
func QueryForHeader() string {
	return fmt.Sprintf("%s='%s'", tmtypes.EventTypeKey, tmtypes.EventNewBlockHeader)
}
