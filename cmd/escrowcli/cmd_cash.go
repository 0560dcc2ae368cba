package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/x/cash"
)

func cmdSend(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for transferring funds from the source account to the
destination account. The source defaults to the address of the private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", conf.Key,
			"Path to the private key file used to find the default source.")
		srcFl    = flAddress(fl, "src", "", "Source account address.")
		dstFl    = flAddress(fl, "dst", "", "Destination account address.")
		amountFl = flAmount(fl, "amount", "", "Amount to transfer, ie. \"2 gwei\".")
		memoFl   = fl.String("memo", "", "Short text attached to the transfer.")
	)
	fl.Parse(args)

	src := *srcFl
	if len(src) == 0 {
		addr, err := keyAddress(*keyPathFl)
		if err != nil {
			return fmt.Errorf("no source given: %s", err)
		}
		src = addr
	}

	return writeMsg(output, &cash.SendMsg{
		Metadata:    ledger.NewMetadata(),
		Source:      src,
		Destination: *dstFl,
		Amount:      *amountFl,
		Memo:        *memoFl,
	})
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the balance of an account. The account defaults to the address of the
private key.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl = fl.String("node", conf.Node,
			"Node address. You can use ESCROWCLI_NODE environment variable to set it.")
		keyPathFl = fl.String("key", conf.Key,
			"Path to the private key file used to find the default account.")
		addrFl = flAddress(fl, "addr", "", "Account address.")
		unitFl = flUnit(fl, "unit", conf.Unit, "Unit the balance is displayed in: wei, gwei or ether.")
	)
	fl.Parse(args)

	addr := *addrFl
	if len(addr) == 0 {
		a, err := keyAddress(*keyPathFl)
		if err != nil {
			return fmt.Errorf("no address given: %s", err)
		}
		addr = a
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, err := dial(ctx, *nodeFl)
	if err != nil {
		return err
	}
	balance, err := s.Balance(addr)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, coin.Format(balance, *unitFl))
	return err
}
