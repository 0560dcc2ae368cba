package escrow

import (
	"bytes"
	"encoding/hex"
	"strconv"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// Escrow is the state of a single escrow instance.
type Escrow struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata,omitempty"`
	// Arbiter is the only one that can approve the release.
	Arbiter ledger.Address `protobuf:"bytes,2,opt,name=arbiter,proto3" json:"arbiter,omitempty"`
	// Beneficiary receives the funds on approval.
	Beneficiary ledger.Address `protobuf:"bytes,3,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
	// Depositor funded the instance.
	Depositor ledger.Address `protobuf:"bytes,4,opt,name=depositor,proto3" json:"depositor,omitempty"`
	// DepositValue is the amount transferred in during deployment.
	DepositValue uint64 `protobuf:"varint,5,opt,name=deposit_value,json=depositValue,proto3" json:"deposit_value,omitempty"`
	// IsApproved never changes back once set.
	IsApproved bool `protobuf:"varint,6,opt,name=is_approved,json=isApproved,proto3" json:"is_approved,omitempty"`
	// Address is the account holding the funds of this instance.
	Address ledger.Address `protobuf:"bytes,7,opt,name=address,proto3" json:"address,omitempty"`
}

func (m *Escrow) Reset() { *m = Escrow{} }
func (m *Escrow) String() string { return proto.CompactTextString(m) }
func (*Escrow) ProtoMessage() {}

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow is valid.
func (e *Escrow) Validate() error {
	if err := e.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := e.Arbiter.Validate(); err != nil {
		return errors.Field("Arbiter", err, "invalid address")
	}
	if err := e.Beneficiary.Validate(); err != nil {
		return errors.Field("Beneficiary", err, "invalid address")
	}
	if err := e.Depositor.Validate(); err != nil {
		return errors.Field("Depositor", err, "invalid address")
	}
	if err := e.Address.Validate(); err != nil {
		return errors.Field("Address", err, "invalid address")
	}
	return nil
}

// Copy returns a deep copy of the escrow.
func (e *Escrow) Copy() *Escrow {
	cp := *e
	if e.Metadata != nil {
		md := *e.Metadata
		cp.Metadata = &md
	}
	cp.Arbiter = append(ledger.Address(nil), e.Arbiter...)
	cp.Beneficiary = append(ledger.Address(nil), e.Beneficiary...)
	cp.Depositor = append(ledger.Address(nil), e.Depositor...)
	cp.Address = append(ledger.Address(nil), e.Address...)
	return &cp
}

// Condition returns the condition owning the account of the escrow with
// given id.
func Condition(id []byte) ledger.Condition {
	return ledger.NewCondition("escrow", "seq", id)
}

// FormatID returns the string form of an escrow id, as used in tags.
func FormatID(id []byte) string {
	return hex.EncodeToString(id)
}

// ParseID accepts an escrow id either as a 16 character hex string or as
// a decimal sequence number.
func ParseID(s string) ([]byte, error) {
	if len(s) == 16 {
		if raw, err := hex.DecodeString(s); err == nil {
			return raw, nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "escrow id %q", s)
	}
	return orm.EncodeSequence(n), nil
}

var escrowSeq = orm.NewSequence("escrow", "id")

const bucketName = "esc"

// IDFromKey strips the bucket prefix from a key returned by a query.
func IDFromKey(key []byte) []byte {
	return bytes.TrimPrefix(key, []byte(bucketName+":"))
}

// NewBucket returns the bucket of escrows, indexed by every party and by
// the account holding the funds.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(bucketName, &Escrow{},
		orm.WithIDSequence(escrowSeq),
		orm.WithIndex("address", idxAddress, true),
		orm.WithIndex("arbiter", idxArbiter, false),
		orm.WithIndex("beneficiary", idxBeneficiary, false),
		orm.WithIndex("depositor", idxDepositor, false),
	)
}

// RegisterQuery exposes escrows under /escrows and the party indexes
// under /escrows/<party>.
func RegisterQuery(qr ledger.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

func toEscrow(m orm.Model) (*Escrow, error) {
	esc, ok := m.(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "can only index escrow, got %T", m)
	}
	return esc, nil
}

func idxAddress(m orm.Model) ([]byte, error) {
	esc, err := toEscrow(m)
	if err != nil {
		return nil, err
	}
	return esc.Address, nil
}

func idxArbiter(m orm.Model) ([]byte, error) {
	esc, err := toEscrow(m)
	if err != nil {
		return nil, err
	}
	return esc.Arbiter, nil
}

func idxBeneficiary(m orm.Model) ([]byte, error) {
	esc, err := toEscrow(m)
	if err != nil {
		return nil, err
	}
	return esc.Beneficiary, nil
}

func idxDepositor(m orm.Model) ([]byte, error) {
	esc, err := toEscrow(m)
	if err != nil {
		return nil, err
	}
	return esc.Depositor, nil
}

func init() {
	proto.RegisterType((*Escrow)(nil), "escrow.Escrow")
}
