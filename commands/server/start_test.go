package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/abci/example/kvstore"
	"github.com/tendermint/tendermint/libs/log"
)

func TestParseStartFlags(t *testing.T) {
	f, err := parseStartFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "tcp://localhost:26658", f.bind)
	assert.False(t, f.debug)
	assert.Empty(t, f.metrics)

	f, err = parseStartFlags([]string{"-bind", "tcp://127.0.0.1:9999", "-debug", "-metrics", ":9100"})
	require.NoError(t, err)
	assert.Equal(t, "tcp://127.0.0.1:9999", f.bind)
	assert.True(t, f.debug)
	assert.Equal(t, ":9100", f.metrics)

	_, err = parseStartFlags([]string{"-unknown"})
	assert.Error(t, err)
}

func TestRunServerStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runServer(ctx, kvstore.NewKVStoreApplication(), "tcp://127.0.0.1:0", log.NewNopLogger())
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunServerBadAddress(t *testing.T) {
	err := runServer(context.Background(), kvstore.NewKVStoreApplication(), "tcp://256.0.0.1:-1", log.NewNopLogger())
	assert.Error(t, err)
}
