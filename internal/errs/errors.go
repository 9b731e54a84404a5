// Package errs defines the engine's error taxonomy. Every kind is a
// plain struct carrying enough context to be reported to a caller
// without losing the underlying cause.
package errs

import "fmt"

// DuplicateTypeError is raised by the prototype registry when
// attach is called with a type name that is already registered.
type DuplicateTypeError struct {
	TypeName string
}

func (e DuplicateTypeError) Error() string {
	return fmt.Sprintf("duplicate_type: prototype %q already registered", e.TypeName)
}

// UnknownParentError is raised by the prototype registry when attach
// names a parent type that has not been registered.
type UnknownParentError struct {
	TypeName   string
	ParentName string
}

func (e UnknownParentError) Error() string {
	return fmt.Sprintf("unknown_parent: %q has no registered parent %q", e.TypeName, e.ParentName)
}

// MissingFieldError is raised by a reader/writer when it encounters a
// field identifier it cannot resolve against the entity's shape.
type MissingFieldError struct {
	Field string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("missing_field: %q", e.Field)
}

// TypeMismatchError is raised when a field's stored representation
// does not match the type the caller tried to read or write it as.
type TypeMismatchError struct {
	Field    string
	Expected string
	Got      string
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("type_mismatch: field %q expected %s, got %s", e.Field, e.Expected, e.Got)
}

// UnsupportedTokenError is raised by a dialect compiler that
// explicitly rejects a token it was asked to visit.
type UnsupportedTokenError struct {
	Dialect string
	Token   string
}

func (e UnsupportedTokenError) Error() string {
	return fmt.Sprintf("unsupported_token: dialect %s rejects %s", e.Dialect, e.Token)
}

// DriverError wraps a backend failure (I/O, constraint violation,
// coercion failure) with the driver's own code and message.
type DriverError struct {
	Code    string
	Message string
	Err     error
}

func (e DriverError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("driver_error[%s]: %s", e.Code, e.Message)
	}

	return fmt.Sprintf("driver_error: %s", e.Message)
}

func (e DriverError) Unwrap() error { return e.Err }

// TransactionStateError is raised by the journal on an illegal state
// transition, e.g. commit on an idle transaction or begin on an
// active one.
type TransactionStateError struct {
	State      string
	Attempted  string
	TxnID      string
}

func (e TransactionStateError) Error() string {
	return fmt.Sprintf("transaction_state_error: cannot %s transaction %s in state %s", e.Attempted, e.TxnID, e.State)
}

// UnknownPrototypeError is raised when an operation names an entity
// whose PrototypeName() was never attached to the registry.
type UnknownPrototypeError struct {
	TypeName string
}

func (e UnknownPrototypeError) Error() string {
	return fmt.Sprintf("unknown_prototype: %q was never attached to the registry", e.TypeName)
}

// IdentityExhaustedError is raised by the object store's identity
// allocator once it cannot hand out a fresh identity. It is fatal for
// the store.
type IdentityExhaustedError struct{}

func (e IdentityExhaustedError) Error() string {
	return "identity_exhausted: store's identity allocator is exhausted"
}

// StorePoisonedError is raised on every mutation attempted against a
// store whose rollback has already failed irrecoverably.
type StorePoisonedError struct {
	Cause error
}

func (e StorePoisonedError) Error() string {
	return fmt.Sprintf("store_poisoned: %s", e.Cause)
}

func (e StorePoisonedError) Unwrap() error { return e.Cause }
