package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeygenFromSeed(t *testing.T) {
	const seed = "000102030405060708090a0b0c0d0e0f"
	dir := t.TempDir()

	gen := func(name, index string) string {
		var out bytes.Buffer
		args := []string{"-key", filepath.Join(dir, name), "-seed", seed, "-index", index}
		require.NoError(t, cmdKeygen(nil, &out, args))
		return strings.TrimSpace(out.String())
	}

	first := gen("a.key", "0")
	again := gen("b.key", "0")
	other := gen("c.key", "1")
	assert.Equal(t, first, again)
	assert.NotEqual(t, first, other)

	// The printed address is the one of the stored key.
	var out bytes.Buffer
	require.NoError(t, cmdKeyaddr(nil, &out, []string{"-key", filepath.Join(dir, "a.key")}))
	assert.Equal(t, first, strings.TrimSpace(out.String()))
}

func TestKeygenDoesNotOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "priv.key")

	var out bytes.Buffer
	require.NoError(t, cmdKeygen(nil, &out, []string{"-key", path}))
	assert.Error(t, cmdKeygen(nil, &out, []string{"-key", path}))
}

func TestKeyaddrFormats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "priv.key")
	require.NoError(t, cmdKeygen(nil, &bytes.Buffer{}, []string{"-key", path}))

	addrs := make(map[string]ledger.Address)
	for _, format := range []string{"hex", "bech32"} {
		var out bytes.Buffer
		require.NoError(t, cmdKeyaddr(nil, &out, []string{"-key", path, "-format", format}))
		addr, err := ledger.ParseAddress(strings.TrimSpace(out.String()))
		require.NoError(t, err, format)
		addrs[format] = addr
	}
	assert.Equal(t, addrs["hex"], addrs["bech32"])
	assert.Error(t, cmdKeyaddr(nil, &bytes.Buffer{}, []string{"-key", path, "-format", "base64"}))
}
