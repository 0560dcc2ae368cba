/*
Package x holds what extensions share. Each extension lives in its own
sub-package and receives an Authenticator instead of reading signatures
itself.
*/
package x
