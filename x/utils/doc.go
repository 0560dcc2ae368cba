/*
Package utils provides decorators that every transaction passes through:
panic recovery, logging, metrics and savepoints.
*/
package utils
