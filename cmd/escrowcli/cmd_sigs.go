package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and sign it. The
nonce of the signer is fetched from the node.

Signed transaction is written to standard output.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl = fl.String("node", conf.Node,
			"Node address. You can use ESCROWCLI_NODE environment variable to set it.")
		keyPathFl = fl.String("key", conf.Key,
			"Path to the private key file that transaction should be signed with. You can use ESCROWCLI_KEY environment variable to set it.")
	)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, err := dial(ctx, *nodeFl)
	if err != nil {
		return err
	}
	if err := s.Sign(tx, key); err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	_, err = writeTx(output, tx)
	return err
}
