package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/ledger"
)

// commands is a register of all available commands. The name is matched
// with the first argument given.
//
// A command function reads only from input and writes only to output. Args
// are the command line arguments without the program and command name and
// should be parsed using the flag package. Commands are kept small and
// combined with unix pipes, ie.
//
//	$ escrowcli deploy -arbiter 0x5aAeb... -beneficiary 0xfB69... -value "1.5 ether" \
//		| escrowcli sign \
//		| escrowcli submit
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"approve": cmdApprove,
	"balance": cmdBalance,
	"deploy":  cmdDeploy,
	"keyaddr": cmdKeyaddr,
	"keygen":  cmdKeygen,
	"send":    cmdSend,
	"show":    cmdShow,
	"sign":    cmdSignTransaction,
	"submit":  cmdSubmitTransaction,
	"version": cmdVersion,
	"view":    cmdTransactionView,
	"watch":   cmdWatch,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for the escrow chain.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	c, err := loadConfig(configPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	conf = c

	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	_, err := fmt.Fprintln(out, ledger.Version())
	return err
}
