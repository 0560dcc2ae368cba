package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Genesis is the part of the tendermint genesis file this application
// reads.
type Genesis struct {
	ChainID  string         `json:"chain_id"`
	AppState ledger.Options `json:"app_state"`
}

// LoadGenesis reads a genesis file.
func LoadGenesis(path string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read genesis: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "decode genesis: %s", err)
	}
	return &gen, nil
}

// ChainInitializers combines many initializers into one.
func ChainInitializers(inits ...ledger.Initializer) ledger.Initializer {
	return chainInitializer{inits: inits}
}

type chainInitializer struct {
	inits []ledger.Initializer
}

// FromGenesis runs every initializer, stopping at the first error.
func (c chainInitializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
