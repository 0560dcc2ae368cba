package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/x/escrow"
)

func cmdDeploy(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that deploys a new escrow. The signer of the
transaction deposits the value into the escrow.

The value accepts a unit, ie. "1.5 ether" or "300 gwei". A bare number is
wei.
`)
		fl.PrintDefaults()
	}
	var (
		arbiterFl     = flAddress(fl, "arbiter", "", "Address of the party allowed to approve the release.")
		beneficiaryFl = flAddress(fl, "beneficiary", "", "Address receiving the funds on approval.")
		valueFl       = flAmount(fl, "value", "", "Amount deposited into the escrow.")
	)
	fl.Parse(args)

	return writeMsg(output, &escrow.DeployMsg{
		Metadata:    ledger.NewMetadata(),
		Arbiter:     *arbiterFl,
		Beneficiary: *beneficiaryFl,
		Amount:      *valueFl,
	})
}

func cmdApprove(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that releases all funds of an escrow to its
beneficiary. It must be signed by the arbiter.
`)
		fl.PrintDefaults()
	}
	var (
		idFl = flEscrowID(fl, "escrow", "ID of the escrow, hex or decimal.")
	)
	fl.Parse(args)

	return writeMsg(output, &escrow.ApproveMsg{
		Metadata: ledger.NewMetadata(),
		EscrowID: *idFl,
	})
}

func cmdShow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the state of an escrow.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl = fl.String("node", conf.Node,
			"Node address. You can use ESCROWCLI_NODE environment variable to set it.")
		idFl   = flEscrowID(fl, "escrow", "ID of the escrow, hex or decimal.")
		unitFl = flUnit(fl, "unit", conf.Unit, "Unit the value is displayed in: wei, gwei or ether.")
	)
	fl.Parse(args)

	if len(*idFl) == 0 {
		return fmt.Errorf("escrow id is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, err := dial(ctx, *nodeFl)
	if err != nil {
		return err
	}
	esc, err := s.Escrow(*idFl)
	if err != nil {
		return err
	}
	return printEscrow(output, *idFl, esc, *unitFl)
}

func printEscrow(w io.Writer, id []byte, esc *escrow.Escrow, unit coin.Unit) error {
	_, err := fmt.Fprintf(w, `id:          %s
address:     %s
arbiter:     %s
beneficiary: %s
depositor:   %s
value:       %s
approved:    %t
`,
		escrow.FormatID(id),
		esc.Address,
		esc.Arbiter,
		esc.Beneficiary,
		esc.Depositor,
		coin.Format(esc.DepositValue, unit),
		esc.IsApproved)
	return err
}

func cmdWatch(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Block until the escrow is approved and print "approved". An escrow that is
already approved returns immediately.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl = fl.String("node", conf.Node,
			"Node address. You can use ESCROWCLI_NODE environment variable to set it.")
		idFl      = flEscrowID(fl, "escrow", "ID of the escrow, hex or decimal.")
		timeoutFl = fl.Duration("timeout", 0, "Give up after this long. Zero waits forever.")
	)
	fl.Parse(args)

	if len(*idFl) == 0 {
		return fmt.Errorf("escrow id is required")
	}

	ctx := context.Background()
	if *timeoutFl > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeoutFl)
		defer cancel()
	}
	s, err := dial(ctx, *nodeFl)
	if err != nil {
		return err
	}
	if err := s.WatchApproved(ctx, *idFl); err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, "approved")
	return err
}
