/*
Package escrow implements a three party escrow.

A depositor deploys an escrow instance naming an arbiter and a beneficiary
and funds it in the same transaction. The instance owns an account derived
from its id. Only the arbiter can approve the escrow, which moves the whole
balance of the instance account to the beneficiary. Approval happens at most
once; the arbiter and the beneficiary can never change.

The state transitions are pure functions in machine.go. Handlers load the
state, call them with the caller identity and apply the returned effects
through the Ledger collaborator.
*/
package escrow
