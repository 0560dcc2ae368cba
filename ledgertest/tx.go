package ledgertest

import (
	"fmt"

	"github.com/iov-one/ledger"
)

// Tx is a mock transaction carrying a single message.
type Tx struct {
	Msg ledger.Msg
	// Err if set is returned by GetMsg.
	Err error
}

var _ ledger.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (ledger.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Reset() { *tx = Tx{} }
func (tx *Tx) String() string { return fmt.Sprintf("Tx{%v}", tx.Msg) }
func (*Tx) ProtoMessage() {}

// Msg is a mock message.
type Msg struct {
	// RoutePath is returned by Path.
	RoutePath string
	// Err if set is returned by Validate.
	Err error
}

var _ ledger.Msg = (*Msg)(nil)

func (m *Msg) Path() string { return m.RoutePath }
func (m *Msg) Validate() error { return m.Err }
func (m *Msg) Reset() { *m = Msg{} }
func (m *Msg) String() string { return "Msg{" + m.RoutePath + "}" }
func (*Msg) ProtoMessage() {}
