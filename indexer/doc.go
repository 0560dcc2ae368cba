/*
Package indexer keeps an off-chain list of escrows up to date.

An Indexer follows deploy and approve transactions of a node. For every
escrow mentioned by a transaction it reads the current state from the chain
and writes it into a Store. Writes are upserts keyed by the escrow id, so a
redelivered event does not change the result. An approved record is never
reverted to pending.
*/
package indexer
