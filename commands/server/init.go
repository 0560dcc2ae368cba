package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/ledger/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const appStateKey = "app_state"

// InitCmd adds the app state to the genesis file created by
// `tendermint init`. An existing app state is never overwritten.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	genFile := filepath.Join(home, "config", "genesis.json")
	logger.Info("Loading genesis", "path", genFile)

	options, err := gen(args)
	if err != nil {
		return err
	}
	return addGenesisOptions(genFile, options)
}

// genesisDoc keeps the tendermint fields of the genesis untouched.
type genesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrNotFound, "%s, run `tendermint init` first", filename)
		}
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	var doc genesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis: %s", err)
	}
	if hasAppState(doc) {
		return errors.Wrap(errors.ErrState, "app state already set")
	}

	doc[appStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(filename, out, 0600)
}

func hasAppState(doc genesisDoc) bool {
	state, ok := doc[appStateKey]
	if !ok {
		return false
	}
	switch string(state) {
	case "", "null", "{}", `""`:
		return false
	}
	return true
}
