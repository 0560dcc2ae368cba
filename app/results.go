package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ResultSet holds zero or more query results. Query responses carry one
// set of keys and one set of values of the same length.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results" json:"results,omitempty"`
}

func (m *ResultSet) Reset() { *m = ResultSet{} }
func (m *ResultSet) String() string { return proto.CompactTextString(m) }
func (*ResultSet) ProtoMessage() {}

func init() {
	proto.RegisterType((*ResultSet)(nil), "app.ResultSet")
}

// ResultsFromKeys returns a set of all keys of the models.
func ResultsFromKeys(models []ledger.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a set of all values of the models.
func ResultsFromValues(models []ledger.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults is the inverse of ResultsFromKeys and ResultsFromValues.
func JoinResults(keys, values *ResultSet) ([]ledger.Model, error) {
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys and %d values", len(keys.Results), len(values.Results))
	}
	models := make([]ledger.Model, len(keys.Results))
	for i := range models {
		models[i] = ledger.Model{Key: keys.Results[i], Value: values.Results[i]}
	}
	return models, nil
}

// UnmarshalOneResult decodes the first value of a serialized result set
// into dst. It returns ErrNotFound if the set is empty.
func UnmarshalOneResult(raw []byte, dst ledger.Persistent) error {
	var res ResultSet
	if err := ledger.Unmarshal(raw, &res); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return errors.ErrNotFound
	}
	return ledger.Unmarshal(res.Results[0], dst)
}

// DeliverOrError returns an abci response for the result of DeliverTx.
func DeliverOrError(res *ledger.DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return abci.ResponseDeliverTx{
		Data: res.Data,
		Log:  res.Log,
		Tags: res.Tags,
	}
}

// DeliverTxError returns an abci response for a failed DeliverTx.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckOrError returns an abci response for the result of CheckTx.
func CheckOrError(res *ledger.CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return abci.ResponseCheckTx{
		Data: res.Data,
		Log:  res.Log,
	}
}

// CheckTxError returns an abci response for a failed CheckTx.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func queryError(err error, debug bool) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseQuery{Code: code, Log: log}
}

// ParseDeliverOrError is the inverse of DeliverOrError.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*ledger.DeliverResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.FromABCI(res.Code, res.Log)
	}
	return &ledger.DeliverResult{
		Data: res.Data,
		Log:  res.Log,
		Tags: res.Tags,
	}, nil
}
