package ledger

import (
	"reflect"

	"github.com/iov-one/ledger/errors"
)

// Msg is the action a transaction requests.
type Msg interface {
	Persistent

	// Path is used by the router to find the handler of this message.
	Path() string

	// Validate checks the message without any access to the state.
	Validate() error
}

// Tx is a signed transaction carrying a single message.
type Tx interface {
	Persistent

	// GetMsg returns the message of this transaction.
	GetMsg() (Msg, error)
}

// TxDecoder decodes raw transaction bytes.
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the path of the transaction message, or an empty string.
func GetPath(tx Tx) string {
	if tx == nil {
		return ""
	}
	msg, err := tx.GetMsg()
	if err != nil || msg == nil {
		return ""
	}
	return msg.Path()
}

// LoadMsg extracts the message of the transaction into destination and
// validates it. Destination must be a pointer to a message type.
//
//	var msg DeployMsg
//	if err := ledger.LoadMsg(tx, &msg); err != nil {
//		return err
//	}
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}

	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrType, "destination must be a pointer")
	}
	src := reflect.ValueOf(msg)
	if src.Kind() == reflect.Ptr && dst.Elem().Kind() != reflect.Ptr {
		src = src.Elem()
	}
	if !src.Type().AssignableTo(dst.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "want %s message, got %T", dst.Elem().Type(), msg)
	}
	dst.Elem().Set(src)

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}
