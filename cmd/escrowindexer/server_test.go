package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iov-one/ledger/indexer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestHandler(t *testing.T) {
	store := indexer.NewMemoryStore()
	require.NoError(t, store.Upsert(context.Background(), indexer.Record{
		ID:       "0000000000000001",
		Value:    42,
		Approved: true,
	}))

	reg := prometheus.NewRegistry()
	indexer.NewMetrics(reg)
	srv := httptest.NewServer(newHandler(store, reg, log.NewNopLogger()))
	defer srv.Close()

	cases := map[string]struct {
		path     string
		wantCode int
		wantBody string
	}{
		"list": {
			path:     "/escrows",
			wantCode: http.StatusOK,
			wantBody: `"value":"42"`,
		},
		"single by hex id": {
			path:     "/escrows/0000000000000001",
			wantCode: http.StatusOK,
			wantBody: `"approved":true`,
		},
		"single by sequence": {
			path:     "/escrows/1",
			wantCode: http.StatusOK,
			wantBody: `"id":"0000000000000001"`,
		},
		"unknown escrow": {
			path:     "/escrows/2",
			wantCode: http.StatusNotFound,
		},
		"malformed id": {
			path:     "/escrows/xyz",
			wantCode: http.StatusBadRequest,
		},
		"metrics": {
			path:     "/metrics",
			wantCode: http.StatusOK,
			wantBody: "escrow_indexer_height",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tc.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tc.wantCode, resp.StatusCode, string(body))
			if tc.wantBody != "" {
				assert.True(t, strings.Contains(string(body), tc.wantBody), string(body))
			}
		})
	}
}

func TestHandlerEmptyList(t *testing.T) {
	srv := httptest.NewServer(newHandler(indexer.NewMemoryStore(), prometheus.NewRegistry(), log.NewNopLogger()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/escrows")
	require.NoError(t, err)
	defer resp.Body.Close()

	var records []indexer.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	assert.NotNil(t, records)
	assert.Empty(t, records)
}
