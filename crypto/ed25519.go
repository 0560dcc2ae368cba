/*
Package crypto provides the keys used to sign transactions.

Only ed25519 is supported. A public key is turned into a condition
"sigs/ed25519/<key>", and the address of that condition identifies the
account, the arbiter or the beneficiary of an escrow.
*/
package crypto

import (
	"bytes"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is the condition extension of signature conditions.
const ExtensionName = "sigs"

// PrivateKey signs messages.
type PrivateKey struct {
	raw ed25519.PrivateKey
}

// GenPrivKeyEd25519 returns a new random private key.
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{raw: priv}
}

// PrivKeyEd25519FromSeed deterministically returns a private key for a 32
// byte seed. Use it for keys derived from a mnemonic or for tests.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{raw: ed25519.NewKeyFromSeed(seed)}
}

// PrivateKeyFromBytes loads a raw 64 byte private key.
func PrivateKeyFromBytes(raw []byte) (*PrivateKey, error) {
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid private key length: %d", len(raw))
	}
	priv := make([]byte, len(raw))
	copy(priv, raw)
	return &PrivateKey{raw: priv}, nil
}

// Bytes returns the raw private key.
func (k *PrivateKey) Bytes() []byte {
	return k.raw
}

// Sign returns the signature of the message.
func (k *PrivateKey) Sign(message []byte) []byte {
	return ed25519.Sign(k.raw, message)
}

// PublicKey returns the matching public key.
func (k *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{raw: k.raw.Public().(ed25519.PublicKey)}
}

// PublicKey verifies signatures.
type PublicKey struct {
	raw ed25519.PublicKey
}

// PublicKeyFromBytes loads a raw 32 byte public key.
func PublicKeyFromBytes(raw []byte) (*PublicKey, error) {
	if len(raw) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid public key length: %d", len(raw))
	}
	return &PublicKey{raw: ed25519.PublicKey(raw)}, nil
}

// Bytes returns the raw public key.
func (p *PublicKey) Bytes() []byte {
	return p.raw
}

// Verify returns true if sig is a signature of message made with the
// matching private key.
func (p *PublicKey) Verify(message, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(p.raw, message, sig)
}

// Equals returns true if both keys are the same.
func (p *PublicKey) Equals(other *PublicKey) bool {
	return other != nil && bytes.Equal(p.raw, other.raw)
}

// Condition returns the condition that only this key can satisfy.
func (p *PublicKey) Condition() ledger.Condition {
	return ledger.NewCondition(ExtensionName, "ed25519", p.raw)
}

// Address returns the account address of this key.
func (p *PublicKey) Address() ledger.Address {
	return p.Condition().Address()
}
