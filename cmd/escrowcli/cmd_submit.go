package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iov-one/ledger/x/escrow"
)

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and submit it.

The command waits until the transaction is included in a block. For a
deployment the id of the new escrow is printed.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl = fl.String("node", conf.Node,
			"Node address. You can use ESCROWCLI_NODE environment variable to set it.")
		timeoutFl = fl.Duration("timeout", 30*time.Second, "Maximum time to wait for the transaction to be committed.")
	)
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}
	if len(tx.GetSignatures()) == 0 {
		return fmt.Errorf("transaction is not signed")
	}
	msg, err := tx.GetMsg()
	if err != nil {
		return fmt.Errorf("cannot extract message: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFl)
	defer cancel()
	s, err := dial(ctx, *nodeFl)
	if err != nil {
		return err
	}
	res, err := s.Commit(ctx, tx)
	if err != nil {
		return fmt.Errorf("cannot commit transaction: %s", err)
	}

	if _, ok := msg.(*escrow.DeployMsg); ok {
		_, err = fmt.Fprintln(output, escrow.FormatID(res.Result.Data))
		return err
	}
	_, err = fmt.Fprintf(output, "committed at height %d\n", res.Height)
	return err
}
