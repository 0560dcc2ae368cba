package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

const maxMemoSize = 128

// SendMsg moves funds from the source to the destination account.
type SendMsg struct {
	Metadata    *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata,omitempty"`
	Source      ledger.Address   `protobuf:"bytes,2,opt,name=source,proto3" json:"source,omitempty"`
	Destination ledger.Address   `protobuf:"bytes,3,opt,name=destination,proto3" json:"destination,omitempty"`
	Amount      uint64           `protobuf:"varint,4,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo        string           `protobuf:"bytes,5,opt,name=memo,proto3" json:"memo,omitempty"`
}

func (m *SendMsg) Reset() { *m = SendMsg{} }
func (m *SendMsg) String() string { return proto.CompactTextString(m) }
func (*SendMsg) ProtoMessage() {}

var _ ledger.Msg = (*SendMsg)(nil)

// Path returns the routing path of this message.
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible.
func (m *SendMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Field("Source", err, "invalid address")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Field("Destination", err, "invalid address")
	}
	if m.Amount == 0 {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Field("Memo", errors.ErrInput, "too long")
	}
	return nil
}

func init() {
	proto.RegisterType((*SendMsg)(nil), "cash.SendMsg")
}
