package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/commands/server"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/events"
	"github.com/iov-one/ledger/x/cash"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultBalance is credited to the genesis account unless a balance is
// given.
const DefaultBalance = "1000 ether"

// GenInitOptions produces the app state with one funded account, for dev
// mode. Arguments are an optional address and an optional balance. Without
// an address a new key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr ledger.Address
	if len(args) > 0 {
		a, err := ledger.ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		a, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}

	balance := DefaultBalance
	if len(args) > 1 {
		balance = args[1]
	}
	amount, err := coin.Parse(balance)
	if err != nil {
		return nil, errors.Wrap(err, "balance")
	}

	state := map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{Address: addr, Balance: amount},
		},
		"escrow": []interface{}{},
	}
	return json.MarshalIndent(state, "", "  ")
}

type keyOutput struct {
	Address string `json:"address"`
	Secret  string `json:"secret"`
}

// GenerateCoinKey returns the address of a new key, along with a JSON
// document holding the hex encoded private key.
func GenerateCoinKey() (ledger.Address, string, error) {
	key := crypto.GenPrivKeyEd25519()
	addr := key.PublicKey().Address()

	out, err := json.MarshalIndent(keyOutput{
		Address: addr.String(),
		Secret:  hex.EncodeToString(key.Bytes()),
	}, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return addr, string(out), nil
}

// GenerateApp builds the application for the start command.
func GenerateApp(options *server.Options) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if options.Home != "" {
		dbPath = filepath.Join(options.Home, "escrow.db")
	}
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}
	return buildApp(kv, options.Logger, options.Debug, options.Metrics)
}

// InlineApp builds the application on an opened store, used to replay
// blocks.
func InlineApp(kv ledger.CommitKVStore, logger log.Logger, debug bool) abci.Application {
	application, err := buildApp(kv, logger, debug, nil)
	if err != nil {
		panic(err)
	}
	return application
}

func buildApp(kv ledger.CommitKVStore, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	application, err := applicationOnStore("escrow", Stack(reg), TxDecoder, kv, debug)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus(logger)
	go logEvents(bus.Subscribe(nil), logger.With("module", "escrow"))

	application.WithInit(Initializers())
	application.WithPublisher(bus)
	application.WithLogger(logger)
	return application, nil
}

// logEvents reports every committed escrow transition.
func logEvents(sub *events.Subscription, logger log.Logger) {
	for e := range sub.Events() {
		logger.Info("Escrow event",
			"kind", e.Kind,
			"id", fmt.Sprintf("%X", e.Key),
			"height", e.Height)
	}
}
