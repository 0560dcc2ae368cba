package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/cmd/escrowd/app"
	"github.com/iov-one/ledger/cmd/escrowd/client"
	"github.com/iov-one/ledger/crypto"
)

// writeTx serialize the transaction using a protocol buffer. First bytes
// written contain the information how much space the transaction takes.
// Size information is required to be able to stream the messages.
func writeTx(w io.Writer, tx *app.Tx) (int, error) {
	b, err := ledger.Marshal(tx)
	if err != nil {
		return 0, err
	}

	var size [txHeaderSize]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(b)))

	if n, err := w.Write(size[:]); err != nil {
		return n, err
	}
	if n, err := w.Write(b); err != nil {
		return n + txHeaderSize, err
	}
	return txHeaderSize + len(b), nil
}

func readTx(r io.Reader) (*app.Tx, int, error) {
	var size [txHeaderSize]byte
	if n, err := io.ReadFull(r, size[:]); err != nil {
		return nil, n, err
	}
	msgSize := binary.BigEndian.Uint32(size[:])
	raw := make([]byte, msgSize)
	if n, err := io.ReadFull(r, raw); err != nil {
		return nil, n + txHeaderSize, err
	}

	var tx app.Tx
	if err := ledger.Unmarshal(raw, &tx); err != nil {
		return nil, int(msgSize + txHeaderSize), err
	}
	return &tx, int(msgSize + txHeaderSize), nil
}

const txHeaderSize = 4

// writeMsg wraps the message into a new unsigned transaction and writes it
// out.
func writeMsg(w io.Writer, msg ledger.Msg) error {
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid message: %s", err)
	}
	tx, err := app.NewTx(msg)
	if err != nil {
		return fmt.Errorf("cannot create transaction: %s", err)
	}
	_, err = writeTx(w, tx)
	return err
}

// dial is a variable so that tests can replace the remote connection.
var dial = func(ctx context.Context, node string) (*client.Session, error) {
	s, err := client.Dial(ctx, node)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to %q: %s", node, err)
	}
	return s, nil
}

func loadKey(path string) (*crypto.PrivateKey, error) {
	key, err := crypto.LoadPrivateKey(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load private key %q: %s", path, err)
	}
	return key, nil
}

// keyAddress returns the address of the key at path.
func keyAddress(path string) (ledger.Address, error) {
	key, err := loadKey(path)
	if err != nil {
		return nil, err
	}
	return key.PublicKey().Address(), nil
}
