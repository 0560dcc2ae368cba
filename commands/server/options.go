/*
Package server implements the subcommands of the node binary: writing the
genesis app state, running the ABCI server and inspecting the block store.
*/
package server

import (
	"encoding/json"

	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Options are passed to the application generator.
type Options struct {
	// Home is the directory the application keeps its database in. An
	// empty value means an in memory database.
	Home   string
	Logger log.Logger
	// Debug returns stack traces in error logs.
	Debug bool
	// Metrics registers the application collectors.
	Metrics prometheus.Registerer
}

// AppGenerator lazily builds the application, after the flags are parsed.
type AppGenerator func(*Options) (abci.Application, error)

// GenOptions produces the genesis app state from the command line
// arguments.
type GenOptions func(args []string) (json.RawMessage, error)
