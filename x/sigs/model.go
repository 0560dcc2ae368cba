package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// StdSignature is a signature attached to a transaction. Sequence is the
// nonce of the signer and must match the stored one exactly.
type StdSignature struct {
	Sequence  int64  `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Pubkey    []byte `protobuf:"bytes,2,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Signature []byte `protobuf:"bytes,3,opt,name=signature,proto3" json:"signature,omitempty"`
}

func (m *StdSignature) Reset() { *m = StdSignature{} }
func (m *StdSignature) String() string { return proto.CompactTextString(m) }
func (*StdSignature) ProtoMessage() {}

// Validate ensures the signature is complete.
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrSequence, "negative")
	}
	if len(s.Pubkey) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if len(s.Signature) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

// UserData keeps the nonce of a signer.
type UserData struct {
	Pubkey   []byte `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Sequence int64  `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

func (m *UserData) Reset() { *m = UserData{} }
func (m *UserData) String() string { return proto.CompactTextString(m) }
func (*UserData) ProtoMessage() {}

var _ orm.Model = (*UserData)(nil)

// Validate ensures the user data is consistent.
func (u *UserData) Validate() error {
	if _, err := crypto.PublicKeyFromBytes(u.Pubkey); err != nil {
		return errors.Field("Pubkey", err, "invalid public key")
	}
	if u.Sequence < 0 {
		return errors.Wrap(ErrSequence, "negative")
	}
	return nil
}

// CheckAndIncrementSequence ensures the signature nonce is the expected one
// and moves the nonce forward.
func (u *UserData) CheckAndIncrementSequence(seq int64) error {
	if u.Sequence != seq {
		return errors.Wrapf(ErrSequence, "mismatch, expected %d, got %d", u.Sequence, seq)
	}
	u.Sequence++
	return nil
}

// NewBucket returns the bucket holding signer nonces, keyed by address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("sigs", &UserData{})
}

// RegisterQuery exposes nonces under /auth.
func RegisterQuery(qr ledger.QueryRouter) {
	NewBucket().Register("auth", qr)
}

func init() {
	proto.RegisterType((*StdSignature)(nil), "sigs.StdSignature")
	proto.RegisterType((*UserData)(nil), "sigs.UserData")
}
