package store

import "fmt"

// Kind classifies a store failure so handlers can map it to an HTTP status
// without parsing messages.
type Kind int

const (
	// KindInternal covers unexpected database failures
	KindInternal Kind = iota
	// KindNotFound means a referenced id does not exist
	KindNotFound
	// KindConflict means a unique key already exists
	KindConflict
	// KindInUse means a deletion is blocked by referencing records
	KindInUse
	// KindNoOp means the operation would change nothing (business rule, not a data error)
	KindNoOp
	// KindInvalid means the input itself is malformed
	KindInvalid
	// KindUnauthorized means credentials or account state reject the caller
	KindUnauthorized
)

// Error carries a failure kind plus the human-readable message shown to the
// caller. Every mutating operation that fails returns one of these and leaves
// all state unchanged.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func errf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the failure kind from an error returned by the store.
// Unknown error types report KindInternal.
func KindOf(err error) Kind {
	if se, ok := err.(*Error); ok {
		return se.Kind
	}
	return KindInternal
}
