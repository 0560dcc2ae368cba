package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/x/escrow"
)

// flAddress returns a value initialized with given default value and
// optionally overwritten by a command line argument. If the default value
// cannot be parsed, the process is terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *ledger.Address {
	var a addressFlag
	if defaultVal != "" {
		if err := a.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return (*ledger.Address)(&a)
}

type addressFlag ledger.Address

func (a addressFlag) String() string {
	if len(a) == 0 {
		return ""
	}
	return ledger.Address(a).String()
}

func (a *addressFlag) Set(raw string) error {
	addr, err := ledger.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = addressFlag(addr)
	return nil
}

// flAmount returns an amount of wei. Units are accepted, ie. "1.5 ether".
func flAmount(fl *flag.FlagSet, name, defaultVal, usage string) *uint64 {
	var a amountFlag
	if defaultVal != "" {
		if err := a.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q amount flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return (*uint64)(&a)
}

type amountFlag uint64

func (a amountFlag) String() string {
	return coin.Format(uint64(a), coin.Wei)
}

func (a *amountFlag) Set(raw string) error {
	n, err := coin.Parse(raw)
	if err != nil {
		return err
	}
	*a = amountFlag(n)
	return nil
}

// flEscrowID returns an escrow id, given either as 16 hex characters or as
// a decimal sequence number.
func flEscrowID(fl *flag.FlagSet, name, usage string) *[]byte {
	var id escrowIDFlag
	fl.Var(&id, name, usage)
	return (*[]byte)(&id)
}

type escrowIDFlag []byte

func (id escrowIDFlag) String() string {
	if len(id) == 0 {
		return ""
	}
	return escrow.FormatID(id)
}

func (id *escrowIDFlag) Set(raw string) error {
	b, err := escrow.ParseID(raw)
	if err != nil {
		return err
	}
	*id = b
	return nil
}

// flUnit returns a display unit.
func flUnit(fl *flag.FlagSet, name string, defaultVal coin.Unit, usage string) *coin.Unit {
	u := unitFlag(defaultVal)
	fl.Var(&u, name, usage)
	return (*coin.Unit)(&u)
}

type unitFlag coin.Unit

func (u unitFlag) String() string {
	return string(u)
}

func (u *unitFlag) Set(raw string) error {
	unit, err := coin.ParseUnit(raw)
	if err != nil {
		return err
	}
	*u = unitFlag(unit)
	return nil
}
