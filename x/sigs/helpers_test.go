package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/ledgertest"
)

type signedTx struct {
	Payload    []byte          `protobuf:"bytes,1,opt,name=payload,proto3" json:"payload,omitempty"`
	Signatures []*StdSignature `protobuf:"bytes,2,rep,name=signatures" json:"signatures,omitempty"`
}

var _ SignedTx = (*signedTx)(nil)

func (tx *signedTx) Reset() { *tx = signedTx{} }
func (tx *signedTx) String() string { return proto.CompactTextString(tx) }
func (*signedTx) ProtoMessage() {}

func (tx *signedTx) GetMsg() (ledger.Msg, error) {
	return &ledgertest.Msg{RoutePath: "test/payload"}, nil
}

func (tx *signedTx) GetSignBytes() ([]byte, error) {
	return tx.Payload, nil
}

func (tx *signedTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}
