package main

import (
	"encoding/json"
	"net/http"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/indexer"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/libs/log"
)

// newHandler serves the indexed escrows and the metrics of the registry.
func newHandler(store indexer.Store, reg *prometheus.Registry, logger log.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /escrows", func(w http.ResponseWriter, r *http.Request) {
		records, err := store.List(r.Context())
		if err != nil {
			logger.Error("cannot list escrows", "err", err)
			writeError(w, http.StatusInternalServerError, "cannot list escrows")
			return
		}
		if records == nil {
			records = []indexer.Record{}
		}
		writeJSON(w, http.StatusOK, records)
	})
	mux.HandleFunc("GET /escrows/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := escrow.ParseID(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid escrow id")
			return
		}
		rec, err := store.Get(r.Context(), escrow.FormatID(id))
		switch {
		case errors.ErrNotFound.Is(err):
			writeError(w, http.StatusNotFound, "escrow not found")
		case err != nil:
			logger.Error("cannot get escrow", "err", err)
			writeError(w, http.StatusInternalServerError, "cannot get escrow")
		default:
			writeJSON(w, http.StatusOK, rec)
		}
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
