package fea

import (
	"errors"
	"fmt"
)

// Code classifies a failure. The set is fixed; clients never observe
// vendor-internal error representations.
type Code string

const (
	// ConnectionError: vendor application unreachable, not running, or the
	// automation handshake failed. Fatal to the request, not the process.
	ConnectionError Code = "connection_error"
	// NotConnectedError: operation attempted before a successful connect.
	NotConnectedError Code = "not_connected"
	// ValidationError: malformed request shape (missing fields, wrong arity,
	// empty boundary lists).
	ValidationError Code = "validation_error"
	// NotFoundError: referenced identifier has no registry entry.
	NotFoundError Code = "not_found"
	// StaleReferenceError: registry entry exists but the vendor-side object
	// is gone.
	StaleReferenceError Code = "stale_reference"
	// UnsupportedOperationError: operation not in the bound vendor's
	// capability set.
	UnsupportedOperationError Code = "unsupported_operation"
	// GeometryError: vendor rejected the operation for geometric reasons
	// (degenerate, self-intersecting, non-planar where planarity is required).
	GeometryError Code = "geometry_error"
)

// Error is a coded failure crossing the adapter boundary.
type Error struct {
	Code Code
	Op   string // operation that failed, e.g. "lusas.createPoint"
	Msg  string
	Err  error // underlying cause, if any
}

func (e *Error) Error() string {
	s := string(e.Code)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds a coded error.
func Errorf(code Code, op, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and operation to an underlying vendor failure.
func Wrap(code Code, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

// CodeOf extracts the taxonomy code from err. Failures that were not mapped
// at an adapter boundary are reported as connection errors: if a vendor call
// produced something we cannot classify, the automation channel is not in a
// state we can reason about.
func CodeOf(err error) Code {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ConnectionError
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Code == code
}
