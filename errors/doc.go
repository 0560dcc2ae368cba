/*
Package errors implements the error taxonomy of the ledger.

Every error returned by a handler, a store or a model should wrap one of the
root errors registered in this package. A root error carries an ABCI code so
that a client on the other side of the wire can tell why a call failed
without parsing the log.

	if balance < amount {
		return errors.Wrapf(errors.ErrAmount, "balance %d, need %d", balance, amount)
	}

Use Is to check the kind of an error, no matter how many times it was
wrapped:

	if errors.ErrUnauthorized.Is(err) {
		...
	}

Errors that do not originate from this package (io, database drivers and so
on) are considered internal. Their message is redacted before it is sent to
a client unless the application runs in debug mode.
*/
package errors
