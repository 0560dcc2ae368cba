package server

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store/iavl"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/types"
)

const (
	flagUntilError = "error"
	flagMaxTries   = "max"
)

// InlineAppGenerator builds the application on top of an opened store.
type InlineAppGenerator func(db ledger.CommitKVStore, logger log.Logger, debug bool) abci.Application

type retryArgs struct {
	dbPath     string
	blockPath  string
	debug      bool
	untilError bool
	maxTries   int
}

func parseRetryArgs(args []string) (retryArgs, error) {
	if len(args) < 2 {
		return retryArgs{}, errors.Wrap(errors.ErrInput,
			"usage: cmd retry <path to abci.db> <path to block.json> [-debug] [-error] [-max=N]")
	}
	res := retryArgs{
		dbPath:    args[0],
		blockPath: args[1],
	}
	fl := flag.NewFlagSet("retry", flag.ContinueOnError)
	fl.BoolVar(&res.debug, flagDebug, false, "print out debug info")
	fl.BoolVar(&res.untilError, flagUntilError, false, "retry multiple times until the hash differs")
	fl.IntVar(&res.maxTries, flagMaxTries, 10, "maximum number of times to retry if -error is passed")
	err := fl.Parse(args[2:])
	return res, err
}

// RetryCmd rolls the application state back by one block and replays the
// block, printing both app hashes. A different hash means the application
// is not deterministic.
func RetryCmd(gen InlineAppGenerator, logger log.Logger, home string, args []string) error {
	flags, err := parseRetryArgs(args)
	if err != nil {
		return err
	}

	raw, err := ioutil.ReadFile(flags.blockPath)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "read block: %s", err)
	}
	var block types.Block
	if err := cdc.UnmarshalJSON(raw, &block); err != nil {
		return errors.Wrapf(errors.ErrInput, "decode block: %s", err)
	}

	db, err := openCommitStore(flags.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	latest, err := db.LatestVersion()
	if err != nil {
		return err
	}
	if latest.Version != block.Header.Height {
		return errors.Wrapf(errors.ErrState,
			"height mismatch, block=%d, abci store=%d", block.Header.Height, latest.Version)
	}

	replay := func() (bool, error) {
		build := func() abci.Application {
			return gen(db, logger, flags.debug)
		}
		return rerunBlock(os.Stdout, build, db, &block)
	}
	same, err := replay()
	for err == nil && same && flags.untilError && flags.maxTries > 0 {
		flags.maxTries--
		same, err = replay()
	}
	return err
}

func openCommitStore(path string) (*iavl.CommitStore, error) {
	path = strings.TrimSuffix(filepath.Clean(path), ".db")
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	db, err := iavl.NewCommitStore(dir, name)
	if err != nil {
		return nil, err
	}
	if err := db.LoadLatestVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func rerunBlock(w io.Writer, build func() abci.Application, db *iavl.CommitStore, block *types.Block) (bool, error) {
	orig, err := db.LatestVersion()
	if err != nil {
		return false, err
	}
	fmt.Fprintf(w, "Original height: %d\n", block.Header.Height)
	fmt.Fprintf(w, "Original hash: %X\n", orig.Hash)

	if err := db.LoadVersionForOverwriting(block.Header.Height - 1); err != nil {
		return false, err
	}

	app := build()
	app.BeginBlock(abci.RequestBeginBlock{
		Hash:   block.Header.Hash(),
		Header: toAbciHeader(block.Header),
	})
	for i, tx := range block.Txs {
		res := app.DeliverTx(tx)
		fmt.Fprintf(w, "Deliver tx %d: code=%d\n", i, res.Code)
	}
	app.EndBlock(abci.RequestEndBlock{Height: block.Header.Height})
	hash := app.Commit().Data
	fmt.Fprintf(w, "Recomputed hash: %X\n", hash)

	return bytes.Equal(orig.Hash, hash), nil
}

func toAbciHeader(h types.Header) abci.Header {
	return abci.Header{
		ChainID:         h.ChainID,
		Height:          h.Height,
		Time:            h.Time,
		NumTxs:          h.NumTxs,
		TotalTxs:        h.TotalTxs,
		AppHash:         h.AppHash,
		ProposerAddress: h.ProposerAddress,
	}
}
