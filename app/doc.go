/*
Package app glues the extensions into an ABCI application.

StoreApp owns the persistent state, answers queries and commits blocks.
BaseApp adds transaction processing on top of it: every transaction is
decoded, passed through a chain of decorators and finally routed to the
handler registered for its message path.
*/
package app
