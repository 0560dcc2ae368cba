package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/orm"
)

// Wallet holds the balance of a single address, in wei.
type Wallet struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata,omitempty"`
	Balance  uint64           `protobuf:"varint,2,opt,name=balance,proto3" json:"balance,omitempty"`
}

func (m *Wallet) Reset() { *m = Wallet{} }
func (m *Wallet) String() string { return proto.CompactTextString(m) }
func (*Wallet) ProtoMessage() {}

var _ orm.Model = (*Wallet)(nil)

// Validate returns an error if the wallet is malformed.
func (w *Wallet) Validate() error {
	return w.Metadata.Validate()
}

// NewBucket returns the bucket of wallets, keyed by address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("cash", &Wallet{})
}

// RegisterQuery exposes wallets under /wallets.
func RegisterQuery(qr ledger.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

func init() {
	proto.RegisterType((*Wallet)(nil), "cash.Wallet")
}
