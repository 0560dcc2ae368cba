package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
)

// Tx is the transaction envelope of the chain. The message is stored
// serialized together with its path, so that it can be decoded without
// knowing its type upfront.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures" json:"signatures,omitempty"`
	MsgPath    string               `protobuf:"bytes,2,opt,name=msg_path,json=msgPath,proto3" json:"msg_path,omitempty"`
	Msg        []byte               `protobuf:"bytes,3,opt,name=msg,proto3" json:"msg,omitempty"`
}

func (m *Tx) Reset() { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage() {}

func init() {
	proto.RegisterType((*Tx)(nil), "escrowd.Tx")
}

var _ sigs.SignedTx = (*Tx)(nil)

// messages lists every message the chain accepts, by path.
var messages = map[string]func() ledger.Msg{
	cash.SendMsg{}.Path():      func() ledger.Msg { return new(cash.SendMsg) },
	escrow.DeployMsg{}.Path():  func() ledger.Msg { return new(escrow.DeployMsg) },
	escrow.ApproveMsg{}.Path(): func() ledger.Msg { return new(escrow.ApproveMsg) },
}

// NewTx returns an unsigned transaction carrying msg.
func NewTx(msg ledger.Msg) (*Tx, error) {
	if _, ok := messages[msg.Path()]; !ok {
		return nil, errors.Wrapf(errors.ErrType, "unknown message %q", msg.Path())
	}
	raw, err := ledger.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return &Tx{MsgPath: msg.Path(), Msg: raw}, nil
}

// GetMsg decodes the message of the transaction.
func (tx *Tx) GetMsg() (ledger.Msg, error) {
	newMsg, ok := messages[tx.MsgPath]
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "unknown message %q", tx.MsgPath)
	}
	msg := newMsg()
	if err := ledger.Unmarshal(tx.Msg, msg); err != nil {
		return nil, errors.Wrap(err, "message")
	}
	return msg, nil
}

// GetSignatures returns all signatures.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes serializes the transaction without its signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{MsgPath: tx.MsgPath, Msg: tx.Msg}
	return ledger.Marshal(&unsigned)
}

// AppendSignature adds a signature to the transaction.
func (tx *Tx) AppendSignature(sig *sigs.StdSignature) {
	tx.Signatures = append(tx.Signatures, sig)
}

// TxDecoder decodes a serialized Tx.
func TxDecoder(raw []byte) (ledger.Tx, error) {
	var tx Tx
	if err := ledger.Unmarshal(raw, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}
