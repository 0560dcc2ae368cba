package server

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countInitializer struct {
	key string
}

func (c countInitializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var n int
	if err := opts.ReadOptions(c.key, &n); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if n < 0 {
		return errors.Wrap(errors.ErrAmount, "negative")
	}
	return db.Set([]byte(c.key), []byte{byte(n)})
}

func TestValidateGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "ledger-validate")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
		return path
	}

	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
	}{
		"valid": {
			genesis: `{"chain_id": "test-chain-1", "app_state": {"count": 3}}`,
		},
		"initializer failure": {
			genesis: `{"chain_id": "test-chain-1", "app_state": {"count": -1}}`,
			wantErr: errors.ErrAmount,
		},
		"bad chain id": {
			genesis: `{"chain_id": "x", "app_state": {"count": 3}}`,
			wantErr: errors.ErrInput,
		},
		"not json": {
			genesis: `{chain_id`,
			wantErr: errors.ErrInput,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := write(name+".json", tc.genesis)
			err := ValidateGenesis(countInitializer{key: "count"}, []string{path})
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
			}
		})
	}

	err = ValidateGenesis(countInitializer{key: "count"}, nil)
	assert.True(t, errors.ErrInput.Is(err))
}
