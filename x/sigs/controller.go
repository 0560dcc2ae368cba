package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
)

// SignCodeV1 prefixes the bytes a signature is made over.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// SignedTx is a transaction carrying signatures.
type SignedTx interface {
	ledger.Tx

	// GetSignBytes returns the canonical serialization of the transaction
	// without its signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns all signatures of the transaction.
	GetSignatures() []*StdSignature
}

// VerifyTxSignatures verifies every signature of the transaction and moves
// each signer nonce forward. It returns the conditions of all signers.
func VerifyTxSignatures(db ledger.KVStore, tx SignedTx, chainID string) ([]ledger.Condition, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	sigs := tx.GetSignatures()
	signers := make([]ledger.Condition, 0, len(sigs))
	for _, sig := range sigs {
		signer, err := VerifySignature(db, sig, raw, chainID)
		if err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature verifies a single signature and updates the nonce of its
// signer.
func VerifySignature(db ledger.KVStore, sig *StdSignature, signBytes []byte, chainID string) (ledger.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	pub, err := crypto.PublicKeyFromBytes(sig.Pubkey)
	if err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, err.Error())
	}

	toSign, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !pub.Verify(toSign, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	bucket := NewBucket()
	key := pub.Address()
	var user UserData
	switch err := bucket.One(db, key, &user); {
	case errors.ErrNotFound.Is(err):
		user = UserData{Pubkey: pub.Bytes()}
	case err != nil:
		return nil, errors.Wrap(err, "load user")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if _, err := bucket.Put(db, key, &user); err != nil {
		return nil, errors.Wrap(err, "save user")
	}
	return pub.Condition(), nil
}

// NextSequence returns the nonce the next signature of addr must carry.
func NextSequence(db ledger.ReadOnlyKVStore, addr ledger.Address) (int64, error) {
	var user UserData
	switch err := NewBucket().One(db, addr, &user); {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, err
	}
	return user.Sequence, nil
}

// BuildSignBytes returns the digest that is signed:
//
//	version | len(chainID) | chainID      | nonce             | signBytes
//	4 bytes | uint8        | ascii string | int64 (bigendian) | serialized transaction
//
// hashed with sha512.
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrSequence, "negative")
	}
	if !ledger.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
	}

	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], uint64(seq))

	out := make([]byte, 0, len(SignCodeV1)+1+len(chainID)+8+len(signBytes))
	out = append(out, SignCodeV1...)
	out = append(out, uint8(len(chainID)))
	out = append(out, chainID...)
	out = append(out, nonce[:]...)
	out = append(out, signBytes...)

	hashed := sha512.Sum512(out)
	return hashed[:], nil
}

// SignTx returns a signature of the transaction made with given key.
func SignTx(key *crypto.PrivateKey, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	toSign, err := BuildSignBytes(raw, chainID, seq)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Sequence:  seq,
		Pubkey:    key.PublicKey().Bytes(),
		Signature: key.Sign(toSign),
	}, nil
}
