package sigs

import "github.com/iov-one/ledger/errors"

// ErrSequence is returned when a signature nonce is not the expected one.
var ErrSequence = errors.Register(120, "invalid sequence number")
