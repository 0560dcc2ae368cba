package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.

A key can be derived from a hex encoded master seed instead of being random.
Use -index to select the account within that seed.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", conf.Key,
			"Path to the private key file. You can use ESCROWCLI_KEY environment variable to set it.")
		seedFl  = fl.String("seed", "", "Optional hex encoded master seed to derive the key from.")
		indexFl = fl.Uint("index", 0, "Account index used when deriving from a seed.")
	)
	fl.Parse(args)

	var key *crypto.PrivateKey
	if *seedFl == "" {
		key = crypto.GenPrivKeyEd25519()
	} else {
		seed, err := hex.DecodeString(*seedFl)
		if err != nil {
			return fmt.Errorf("invalid seed: %s", err)
		}
		key, err = crypto.DeriveKey(seed, crypto.DerivationPath(uint32(*indexFl)))
		if err != nil {
			return err
		}
	}

	if err := crypto.SavePrivateKey(*keyPathFl, key); err != nil {
		return fmt.Errorf("cannot save private key: %s", err)
	}
	_, err := fmt.Fprintln(output, key.PublicKey().Address())
	return err
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the address associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", conf.Key,
			"Path to the private key file. You can use ESCROWCLI_KEY environment variable to set it.")
		formatFl = fl.String("format", "hex", "Address format, either hex or bech32.")
		hrpFl    = fl.String("hrp", ledger.TestnetHRP, "Human readable prefix of a bech32 address.")
	)
	fl.Parse(args)

	addr, err := keyAddress(*keyPathFl)
	if err != nil {
		return err
	}

	switch *formatFl {
	case "hex":
		_, err = fmt.Fprintln(output, addr)
	case "bech32":
		enc, err := addr.Bech32(*hrpFl)
		if err != nil {
			return fmt.Errorf("cannot encode address: %s", err)
		}
		_, err = fmt.Fprintln(output, enc)
		return err
	default:
		return fmt.Errorf("unknown format %q", *formatFl)
	}
	return err
}
