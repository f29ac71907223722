package jsonval

import "errors"

var (
	// ErrKindMismatch is returned by accessors invoked on a value of the
	// wrong kind.
	ErrKindMismatch = errors.New("jsonval: kind mismatch")

	// ErrKeyNotFound is returned by Get when a map has no such key.
	ErrKeyNotFound = errors.New("jsonval: key not found")

	// ErrIndexOutOfRange is returned by Index for positions outside the
	// array.
	ErrIndexOutOfRange = errors.New("jsonval: index out of range")
)
