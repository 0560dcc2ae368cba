package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/cmd/escrowd/app"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxStream(t *testing.T) {
	var buf bytes.Buffer

	msgs := []ledger.Msg{
		&escrow.DeployMsg{
			Metadata:    ledger.NewMetadata(),
			Arbiter:     ledgertest.RandomAddress(),
			Beneficiary: ledgertest.RandomAddress(),
			Amount:      12,
		},
		&escrow.ApproveMsg{
			Metadata: ledger.NewMetadata(),
			EscrowID: orm.EncodeSequence(7),
		},
	}
	for _, msg := range msgs {
		require.NoError(t, writeMsg(&buf, msg))
	}

	for _, want := range msgs {
		tx, _, err := readTx(&buf)
		require.NoError(t, err)
		got, err := tx.GetMsg()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, _, err := readTx(&buf)
	assert.Equal(t, io.EOF, err)
}

func TestReadTruncatedTx(t *testing.T) {
	tx, err := app.NewTx(&escrow.ApproveMsg{
		Metadata: ledger.NewMetadata(),
		EscrowID: orm.EncodeSequence(1),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = writeTx(&buf, tx)
	require.NoError(t, err)

	raw := buf.Bytes()
	_, _, err = readTx(bytes.NewReader(raw[:len(raw)-2]))
	assert.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestWriteInvalidMsg(t *testing.T) {
	var buf bytes.Buffer
	err := writeMsg(&buf, &escrow.DeployMsg{
		Metadata: ledger.NewMetadata(),
		Amount:   1,
	})
	assert.Error(t, err)
	assert.Equal(t, 0, buf.Len())
}
