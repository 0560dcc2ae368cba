package server

import (
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGetBlockArgs(t *testing.T) {
	_, _, err := parseGetBlockArgs(nil)
	assert.True(t, errors.ErrInput.Is(err))

	path, height, err := parseGetBlockArgs([]string{"data/blockstore.db", "-height", "42"})
	require.NoError(t, err)
	assert.Equal(t, "data/blockstore.db", path)
	assert.Equal(t, int64(42), height)
}

func TestOpenDBRequiresDBSuffix(t *testing.T) {
	_, err := openDB("data/blockstore")
	assert.True(t, errors.ErrInput.Is(err))
}
