package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// DeployMsg creates a new escrow instance funded with Amount from the
// account of the main signer.
type DeployMsg struct {
	Metadata    *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata,omitempty"`
	Arbiter     ledger.Address   `protobuf:"bytes,2,opt,name=arbiter,proto3" json:"arbiter,omitempty"`
	Beneficiary ledger.Address   `protobuf:"bytes,3,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
	Amount      uint64           `protobuf:"varint,4,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *DeployMsg) Reset() { *m = DeployMsg{} }
func (m *DeployMsg) String() string { return proto.CompactTextString(m) }
func (*DeployMsg) ProtoMessage() {}

var _ ledger.Msg = (*DeployMsg)(nil)

// Path returns the routing path of this message.
func (DeployMsg) Path() string {
	return "escrow/deploy"
}

// Validate ensures the message is well formed. Zero amount is allowed.
func (m *DeployMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Arbiter.Validate(); err != nil {
		return errors.Field("Arbiter", err, "invalid address")
	}
	if err := m.Beneficiary.Validate(); err != nil {
		return errors.Field("Beneficiary", err, "invalid address")
	}
	return nil
}

// ApproveMsg releases the funds of an escrow to its beneficiary.
type ApproveMsg struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata,omitempty"`
	EscrowID []byte           `protobuf:"bytes,2,opt,name=escrow_id,json=escrowId,proto3" json:"escrow_id,omitempty"`
}

func (m *ApproveMsg) Reset() { *m = ApproveMsg{} }
func (m *ApproveMsg) String() string { return proto.CompactTextString(m) }
func (*ApproveMsg) ProtoMessage() {}

var _ ledger.Msg = (*ApproveMsg)(nil)

// Path returns the routing path of this message.
func (ApproveMsg) Path() string {
	return "escrow/approve"
}

// Validate ensures the message is well formed.
func (m *ApproveMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if len(m.EscrowID) != 8 {
		return errors.Field("EscrowID", errors.ErrInput, "must be 8 bytes, got %d", len(m.EscrowID))
	}
	return nil
}

func init() {
	proto.RegisterType((*DeployMsg)(nil), "escrow.DeployMsg")
	proto.RegisterType((*ApproveMsg)(nil), "escrow.ApproveMsg")
}
