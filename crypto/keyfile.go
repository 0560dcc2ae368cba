package crypto

import (
	"io/ioutil"
	"os"

	"github.com/iov-one/ledger/errors"
)

// LoadPrivateKey reads a raw private key file.
func LoadPrivateKey(path string) (*PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read private key: %s", err)
	}
	return PrivateKeyFromBytes(raw)
}

// SavePrivateKey writes the raw private key into a new file readable only by
// its owner. An existing file is never overwritten.
func SavePrivateKey(path string, key *PrivateKey) error {
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if os.IsExist(err) {
			return errors.Wrapf(errors.ErrDuplicate, "private key file %q already exists", path)
		}
		return errors.Wrapf(errors.ErrInput, "create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(key.Bytes()); err != nil {
		return errors.Wrapf(errors.ErrInput, "write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return errors.Wrapf(errors.ErrInput, "close private key file: %s", err)
	}
	return nil
}
