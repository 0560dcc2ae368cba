package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is returned when the caller is not allowed to do
	// what it asked for, ie. approve an escrow it is not an arbiter of.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned when a message is malformed or cannot be handled.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned when a model fails validation and cannot be
	// persisted.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when an entity with the same unique key
	// already exists.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is returned when a code path that must never be reached is
	// reached.
	ErrHuman = Register(7, "coding error")

	// ErrImmutable is returned when an attempt is made to change a value
	// that is set once.
	ErrImmutable = Register(8, "cannot be modified")

	// ErrEmpty is returned when a required value is missing.
	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when an entity is not in a state that allows the
	// requested transition.
	ErrState = Register(10, "invalid state")

	// ErrType is returned when a value is not of the expected type.
	ErrType = Register(11, "invalid type")

	// ErrAmount is returned when there are not enough funds to cover an
	// operation.
	ErrAmount = Register(12, "insufficient amount")

	// ErrInput is returned for malformed input, ie. an identity that does
	// not decode into an address.
	ErrInput = Register(13, "invalid input")

	// ErrOverflow is returned when a computation result does not fit the
	// value type.
	ErrOverflow = Register(14, "value overflow")

	// ErrDatabase is returned when the underlying storage fails.
	ErrDatabase = Register(15, "database")

	// ErrNetwork is returned when a remote node cannot be reached.
	ErrNetwork = Register(16, "network")

	// ErrTimeout is returned when an operation did not complete in time.
	ErrTimeout = Register(17, "timeout")

	// ErrIteratorDone is returned by an iterator that has no more items.
	ErrIteratorDone = Register(18, "iterator done")

	// ErrPanic is set only when a panic is recovered, so that potentially
	// sensitive system information can be redacted.
	ErrPanic = Register(111222, "panic")
)

// Register returns a root error that other errors wrap at runtime.
//
// Each code can be registered only once. Reusing a code panics, so call this
// function only during program initialization.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error code %d is already registered: %q", code, e.desc))
	}
	err := &Error{code: code, desc: description}
	usedCodes[code] = err
	return err
}

// usedCodes keeps track of registered codes. Code 1 is reserved for internal
// errors.
var usedCodes = map[uint32]*Error{
	1: nil,
}

// Error is a root error. Its code is what the ABCI response carries.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// ABCICode returns the code reported to the client.
func (e Error) ABCICode() uint32 {
	return e.code
}

// New returns a new error with this root error as the cause.
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with formatting.
func (e *Error) Newf(format string, args ...interface{}) error {
	return e.New(fmt.Sprintf(format, args...))
}

// Is returns true if err is this root error or wraps it.
func (e *Error) Is(err error) bool {
	if e == nil {
		return errIsNil(err)
	}
	for {
		if err == e {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
}

// Is returns true if err is of the kind of any of the given root errors.
func Is(err error, kinds ...*Error) bool {
	for _, k := range kinds {
		if k.Is(err) {
			return true
		}
	}
	return false
}

// IsEnvironmentFailure returns true if the error was caused by malformed
// identities or a rejection of the execution environment, as opposed to an
// authorization or a funding problem.
func IsEnvironmentFailure(err error) bool {
	return Is(err, ErrInput, ErrEmpty, ErrMsg, ErrModel, ErrDatabase, ErrPanic)
}

// Wrap extends given error with an additional description. It returns nil
// if err is nil.
//
// A stack trace is attached once, at the innermost wrap.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{parent: err, msg: description}
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

func (e *wrappedError) Unwrap() error {
	return e.parent
}

// Format prints the stack trace of the innermost error with %+v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%+v\n%s", e.parent, e.msg)
		return
	}
	fmt.Fprint(s, e.Error())
}

// Recover captures a panic and converts it into an ErrPanic assigned to err.
// Call it using defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// Field returns an error describing which field of a message or a model
// failed validation. It returns nil if err is nil.
func Field(name string, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrapf(err, "field %q: %s", name, fmt.Sprintf(format, args...))
}

type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
}

// errIsNil returns true if the value represented by err is nil, including a
// typed nil pointer.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	if v := reflect.ValueOf(err); v.Kind() == reflect.Ptr {
		return v.IsNil()
	}
	return false
}
