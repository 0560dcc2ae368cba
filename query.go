package ledger

import (
	"strings"

	"github.com/iov-one/ledger/errors"
)

// Query modifiers understood by the query handlers.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is a key value pair returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair returns a single element result.
func Pair(key, value []byte) []Model {
	return []Model{{Key: key, Value: value}}
}

// QueryHandler answers queries for one path.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister registers the query handlers of an extension.
type QueryRegister func(QueryRouter)

// QueryRouter maps a query path to its handler.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter returns an empty router.
func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll registers every extension.
func (r QueryRouter) RegisterAll(qr ...QueryRegister) {
	for _, q := range qr {
		q(r)
	}
}

// Register adds a handler under given path. It panics if the path is taken.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic("query path already registered: " + path)
	}
	r.routes[path] = h
}

// Handler returns the handler of a path, which may carry a modifier, ie.
// "/escrows?prefix". The second value is the modifier.
func (r QueryRouter) Handler(path string) (QueryHandler, string, error) {
	mod := KeyQueryMod
	if i := strings.Index(path, "?"); i >= 0 {
		path, mod = path[:i], path[i+1:]
	}
	h, ok := r.routes[path]
	if !ok {
		return nil, "", errors.Wrapf(errors.ErrNotFound, "query path %q", path)
	}
	return h, mod, nil
}
