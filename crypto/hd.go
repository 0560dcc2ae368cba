package crypto

import (
	"fmt"

	"github.com/iov-one/ledger/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// CoinType is the SLIP-0044 coin type used for derivation paths.
const CoinType = 234

// DerivationPath returns the hardened path of the n-th account, ie.
// "m/44'/234'/0'".
func DerivationPath(n uint32) string {
	return fmt.Sprintf("m/44'/%d'/%d'", CoinType, n)
}

// DeriveKey returns the private key found at given SLIP-0010 path of the
// master seed.
func DeriveKey(seed []byte, path string) (*PrivateKey, error) {
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}
