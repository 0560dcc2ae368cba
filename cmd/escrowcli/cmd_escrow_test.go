package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeployView(t *testing.T) {
	arbiter := crypto.GenPrivKeyEd25519().PublicKey().Address()
	beneficiary := crypto.GenPrivKeyEd25519().PublicKey().Address()

	var tx bytes.Buffer
	args := []string{
		"-arbiter", arbiter.String(),
		"-beneficiary", beneficiary.String(),
		"-value", "1.5 gwei",
	}
	require.NoError(t, cmdDeploy(nil, &tx, args))

	var out bytes.Buffer
	require.NoError(t, cmdTransactionView(&tx, &out, nil))

	var view struct {
		Path string
		Msg  struct {
			Amount uint64
		}
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	assert.Equal(t, "escrow/deploy", view.Path)
	assert.Equal(t, uint64(1500000000), view.Msg.Amount)
}

func TestSubmitUnsigned(t *testing.T) {
	var tx bytes.Buffer
	require.NoError(t, cmdApprove(nil, &tx, []string{"-escrow", "1"}))
	assert.Error(t, cmdSubmitTransaction(&tx, &bytes.Buffer{}, nil))
}

// pipe runs the commands one after another, each reading what the previous
// one wrote, and returns the trimmed output of the last one.
func pipe(t testing.TB, steps ...func(io.Reader, io.Writer) error) string {
	t.Helper()
	var in bytes.Buffer
	for i, step := range steps {
		var out bytes.Buffer
		if err := step(&in, &out); err != nil {
			t.Fatalf("step %d: %s", i, err)
		}
		in = out
	}
	return strings.TrimSpace(in.String())
}

// withArgs binds command line arguments to a command.
func withArgs(cmd func(io.Reader, io.Writer, []string) error, args ...string) func(io.Reader, io.Writer) error {
	return func(in io.Reader, out io.Writer) error {
		return cmd(in, out, args)
	}
}

func TestEscrowPipeline(t *testing.T) {
	dir := t.TempDir()
	depositorKey := filepath.Join(dir, "depositor.key")
	arbiterKey := filepath.Join(dir, "arbiter.key")
	require.NoError(t, cmdKeygen(nil, &bytes.Buffer{}, []string{"-key", depositorKey}))
	require.NoError(t, cmdKeygen(nil, &bytes.Buffer{}, []string{"-key", arbiterKey}))

	depositor, err := keyAddress(depositorKey)
	require.NoError(t, err)
	arbiter, err := keyAddress(arbiterKey)
	require.NoError(t, err)
	beneficiary := crypto.GenPrivKeyEd25519().PublicKey().Address()

	fund(t, depositor, 5000)
	fund(t, arbiter, 10)

	id := pipe(t,
		withArgs(cmdDeploy,
			"-arbiter", arbiter.String(),
			"-beneficiary", beneficiary.String(),
			"-value", "3000"),
		withArgs(cmdSignTransaction, "-key", depositorKey),
		withArgs(cmdSubmitTransaction),
	)
	require.Len(t, id, 16)

	var show bytes.Buffer
	require.NoError(t, cmdShow(nil, &show, []string{"-escrow", id, "-unit", "wei"}))
	assert.Contains(t, show.String(), "value:       3000 wei")
	assert.Contains(t, show.String(), "approved:    false")

	var balance bytes.Buffer
	require.NoError(t, cmdBalance(nil, &balance, []string{"-key", depositorKey, "-unit", "wei"}))
	assert.Equal(t, "2000 wei", strings.TrimSpace(balance.String()))

	watched := make(chan string, 1)
	go func() {
		var out bytes.Buffer
		if err := cmdWatch(nil, &out, []string{"-escrow", id, "-timeout", "20s"}); err != nil {
			watched <- err.Error()
			return
		}
		watched <- strings.TrimSpace(out.String())
	}()

	pipe(t,
		withArgs(cmdApprove, "-escrow", id),
		withArgs(cmdSignTransaction, "-key", arbiterKey),
		withArgs(cmdSubmitTransaction),
	)

	select {
	case got := <-watched:
		assert.Equal(t, "approved", got)
	case <-time.After(25 * time.Second):
		t.Fatal("watch did not return")
	}

	balance.Reset()
	require.NoError(t, cmdBalance(nil, &balance, []string{"-addr", beneficiary.String(), "-unit", "wei"}))
	assert.Equal(t, "3000 wei", strings.TrimSpace(balance.String()))

	// A second approval is rejected and changes nothing.
	var tx bytes.Buffer
	require.NoError(t, cmdApprove(nil, &tx, []string{"-escrow", id}))
	var signed bytes.Buffer
	require.NoError(t, cmdSignTransaction(&tx, &signed, []string{"-key", arbiterKey}))
	assert.Error(t, cmdSubmitTransaction(&signed, &bytes.Buffer{}, nil))
}

func fund(t testing.TB, dst ledger.Address, amount uint64) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	s, err := dial(ctx, "")
	require.NoError(t, err)
	require.NoError(t, s.Send(ctx, faucet, dst, amount, "fund"))
}
