/*
Package ledger defines the common interfaces used to build the escrow
application on top of a tendermint ABCI node, together with a few simple
components that do not deserve their own package.

The application is built out of handlers. Each handler processes one kind of
message against a key value store. Decorators wrap handlers to provide
common functionality such as signature verification, panic recovery or an
all-or-nothing execution of a message.

Values are passed between the application, decorators and handlers through
context.Context. For every value V of type T that the context carries there
are two functions:

	WithV(Context, T) Context
	GetV(Context) (val T, ok bool)

WithV panics if the value was already set, so that a lower level module
cannot overwrite what a higher level module decided (ie. the block height).
*/
package ledger
