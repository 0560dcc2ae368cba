package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/iov-one/ledger"
	rpc "github.com/iov-one/ledger/client"
	"github.com/iov-one/ledger/cmd/escrowd/app"
	"github.com/iov-one/ledger/cmd/escrowd/client"
	"github.com/iov-one/ledger/commands/server"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/x/cash"
	"github.com/tendermint/tendermint/libs/log"
	nm "github.com/tendermint/tendermint/node"
	rpctest "github.com/tendermint/tendermint/rpc/test"
	tm "github.com/tendermint/tendermint/types"
)

const initBalance = 1000000

var (
	node   *nm.Node
	faucet *crypto.PrivateKey
)

func TestMain(m *testing.M) {
	faucet = crypto.GenPrivKeyEd25519()

	config := rpctest.GetConfig()
	config.Moniker = "EscrowCLITest"
	config.TxIndex.IndexTags = ""
	config.TxIndex.IndexAllTags = true

	application, err := app.GenerateApp(&server.Options{
		Home:   config.RootDir,
		Logger: log.NewNopLogger(),
	})
	if err != nil {
		panic(err)
	}
	if err := initGenesis(config.GenesisFile(), faucet.PublicKey().Address()); err != nil {
		panic(err)
	}

	node = rpctest.StartTendermint(application)
	time.Sleep(100 * time.Millisecond)

	// Commands talk to the in process node instead of dialing out.
	dial = func(ctx context.Context, remote string) (*client.Session, error) {
		c := rpc.NewClient(rpc.NewLocalConnection(node))
		return client.NewSession(c, rpctest.GetConfig().ChainID()), nil
	}

	code := m.Run()

	node.Stop()
	node.Wait()
	os.Exit(code)
}

func initGenesis(filename string, addr ledger.Address) error {
	doc, err := tm.GenesisDocFromFile(filename)
	if err != nil {
		return err
	}
	appState, err := json.Marshal(map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{Address: addr, Balance: initBalance},
		},
	})
	if err != nil {
		return fmt.Errorf("serialize state: %s", err)
	}
	doc.AppState = appState
	return doc.SaveAs(filename)
}
