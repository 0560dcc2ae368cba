package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessABCICode is the ABCI code of a successful response.
	SuccessABCICode = 0

	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and the log that an ABCI response should carry
// for the given error. Errors that do not wrap a registered root error are
// internal: they get code 1 and, outside of debug mode, a generic message.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	if debug {
		return code, fmt.Sprintf("%+v", err)
	}
	if code == internalABCICode {
		return code, internalABCILog
	}
	return code, err.Error()
}

type coder interface {
	ABCICode() uint32
}

func abciCode(err error) uint32 {
	if errIsNil(err) {
		return SuccessABCICode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			return internalABCICode
		}
		err = c.Cause()
	}
}

// Redact replaces internal errors and recovered panics with a generic
// error. It is a no-op in debug mode.
func Redact(err error, debug bool) error {
	if debug || errIsNil(err) {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}

// FromABCI rebuilds an error from a code and a log received from a node. The
// result is of the registered kind so that Is works on the client side.
func FromABCI(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	if root, ok := usedCodes[code]; ok && root != nil {
		return Wrap(root, log)
	}
	return fmt.Errorf("code %d: %s", code, log)
}
