/*
Package orm maps models onto the key value store.

A ModelBucket stores models of a single type under a namespace prefix. It
can generate primary keys from a sequence and maintain secondary indexes so
that models can be listed by one of their attributes, ie. all escrows of an
arbiter.

Keys are laid out as follows

	<bucket>:<primary key>                     model
	_s.<bucket>:<name>                         sequence counter
	_i.<bucket>_<index>:<len><value><primary>  secondary index entry
*/
package orm
