package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/client"
	"github.com/iov-one/ledger/indexer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

func main() {
	fl := flag.NewFlagSet("escrowindexer", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
Follow escrow transactions of a node and serve the list of known escrows.

  GET /escrows       all escrows as JSON
  GET /escrows/{id}  a single escrow
  GET /metrics       prometheus metrics

Settings are read from the TOML configuration file (keys node, listen and
postgres) and can be overwritten with ESCROWINDEXER_NODE,
ESCROWINDEXER_LISTEN and ESCROWINDEXER_POSTGRES environment variables.
`)
		fl.PrintDefaults()
	}
	var (
		configFl  = fl.String("config", os.Getenv("ESCROWINDEXER_CONFIG"), "Path to the TOML configuration file.")
		versionFl = fl.Bool("version", false, "Print version and exit.")
	)
	fl.Parse(os.Args[1:])

	if *versionFl {
		fmt.Println(ledger.Version())
		return
	}

	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", "escrowindexer")

	conf, err := loadConfig(*configFl)
	if err != nil {
		logger.Error("cannot load configuration", "err", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, conf, logger); err != nil {
		logger.Error("indexer failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, conf config, logger log.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store, closeStore, err := openStore(ctx, conf.Postgres)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	c := client.NewClient(client.NewHTTPConnection(conf.Node))
	ix := indexer.New(c, store, logger, indexer.NewMetrics(reg))

	srv := &http.Server{
		Addr:              conf.Listen,
		Handler:           newHandler(store, reg, logger),
		ReadHeaderTimeout: 15 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", conf.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	ixErr := make(chan error, 1)
	go func() {
		ixErr <- ix.Run(ctx)
	}()

	select {
	case err = <-serveErr:
	case err = <-ixErr:
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		logger.Error("cannot shutdown http server", "err", serr)
	}
	return err
}

// openStore returns an in memory store if no dsn is given.
func openStore(ctx context.Context, dsn string) (indexer.Store, func(), error) {
	if dsn == "" {
		return indexer.NewMemoryStore(), func() {}, nil
	}
	store, err := indexer.NewPostgresStore(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}
