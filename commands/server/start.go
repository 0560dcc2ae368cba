package server

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/ledger/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

type startFlags struct {
	bind    string
	debug   bool
	metrics string
}

func parseStartFlags(args []string) (startFlags, error) {
	var f startFlags
	fl := flag.NewFlagSet("start", flag.ContinueOnError)
	fl.StringVar(&f.bind, flagBind, "tcp://localhost:26658", "address server listens on")
	fl.BoolVar(&f.debug, flagDebug, false, "call stack returned on error")
	fl.StringVar(&f.metrics, flagMetrics, "", "address to serve prometheus metrics on, disabled if empty")
	err := fl.Parse(args)
	return f, err
}

// StartCmd builds the application and serves it over an ABCI socket until
// SIGINT or SIGTERM is received.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	f, err := parseStartFlags(args)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	app, err := gen(&Options{
		Home:    home,
		Logger:  logger,
		Debug:   f.debug,
		Metrics: reg,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if f.metrics != "" {
		srv := &http.Server{
			Addr:    f.metrics,
			Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "err", err)
			}
		}()
		defer srv.Close()
	}

	return runServer(ctx, app, f.bind, logger)
}

// runServer serves app until ctx is done.
func runServer(ctx context.Context, app abci.Application, addr string, logger log.Logger) error {
	logger.Info("Starting ABCI app", "bind", addr)

	svr, err := server.NewServer(addr, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrNetwork, "create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrNetwork, "start server: %s", err)
	}

	<-ctx.Done()
	logger.Info("Stopping ABCI app")
	if err := svr.Stop(); err != nil {
		return errors.Wrap(errors.ErrNetwork, err.Error())
	}
	return nil
}
