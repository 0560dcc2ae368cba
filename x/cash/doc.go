/*
Package cash keeps the native asset balance of every account. Its Controller
is the ledger the escrow extension moves funds with.
*/
package cash
