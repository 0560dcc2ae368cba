package ledgertest

import (
	"crypto/rand"
	"encoding/binary"
	"sync/atomic"

	"github.com/iov-one/ledger"
)

var sequence uint64

// NewCondition returns a unique condition. Each call returns a different
// value.
func NewCondition() ledger.Condition {
	id := make([]byte, 8)
	binary.BigEndian.PutUint64(id, atomic.AddUint64(&sequence, 1))
	return ledger.NewCondition("test", "seq", id)
}

// RandomAddress returns a random address.
func RandomAddress() ledger.Address {
	raw := make([]byte, ledger.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		panic(err)
	}
	return raw
}
