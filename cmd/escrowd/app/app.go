/*
Package app links together all the components of the escrow chain: the
transaction envelope, the decorator chain, the message router and the
query router.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/iov-one/ledger/x"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Authenticator accepts public key signatures.
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// Chain returns the decorators every transaction goes through.
func Chain(metrics utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, a failing message still moves the nonce forward
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router dispatches cash and escrow messages. Sends cannot credit escrow
// accounts.
func Router(authFn x.Authenticator, ctrl cash.Controller) *app.Router {
	r := app.NewRouter()
	cash.RegisterRoutes(r, authFn, escrow.NewGuardedController(ctrl))
	escrow.RegisterRoutes(r, authFn, ctrl)
	return r
}

// QueryRouter allows access to "/auth", "/wallets" and "/escrows".
func QueryRouter() ledger.QueryRouter {
	r := ledger.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		cash.RegisterQuery,
		escrow.RegisterQuery,
	)
	return r
}

// Stack wires the router behind the decorator chain.
func Stack(reg prometheus.Registerer) ledger.Handler {
	authFn := Authenticator()
	return Chain(utils.NewMetrics(reg)).
		WithHandler(Router(authFn, cash.NewController()))
}

// Initializers load the genesis state of every extension.
func Initializers() ledger.Initializer {
	ctrl := cash.NewController()
	return app.ChainInitializers(
		cash.NewInitializer(ctrl),
		escrow.Initializer{Minter: ctrl},
	)
}

// Application builds the ABCI application on a store persisted at dbPath.
func Application(name string, h ledger.Handler, tx ledger.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	return applicationOnStore(name, h, tx, kv, debug)
}

func applicationOnStore(name string, h ledger.Handler, tx ledger.TxDecoder, kv ledger.CommitKVStore, debug bool) (app.BaseApp, error) {
	store, err := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	if err != nil {
		return app.BaseApp{}, err
	}
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore opens the persistent store at dbPath. An empty path
// returns a store kept in memory.
func CommitKVStore(dbPath string) (ledger.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name %q", dbPath)
	}
	// Some callers add the ".db" extension leveldb appends itself.
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
