// Package errors augments the standard errors package
// with a Wrap() method to chain a cause to a sentinel message,
// without resorting to fmt.Errorf("%w", err).
package errors

import (
	stderr "errors"
	"fmt"

	"go.uber.org/multierr"
)

var _ error = New("")

// New Error
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Newf builds an Error with a formatted message
func Newf(format string, args ...interface{}) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// Error augments the standard error interface with a Wrap method.
//
// Sentinel errors declared at the package level must not be wrapped in place:
// use Wrap on a fresh New() instead, or Is() will match unrelated causes.
type Error struct {
	msg string
	err error
}

// Error message, followed by the message of the wrapped cause, if any
func (e *Error) Error() string {
	if e.err == nil {
		return e.msg
	}
	if e.msg == "" {
		return e.err.Error()
	}
	return e.msg + ": " + e.err.Error()
}

// Unwrap nested error
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap a nested error
func (e *Error) Wrap(err error) *Error {
	e.err = err
	return e
}

// Is of some error type?
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok && e != nil && t != nil && t.err == nil {
		return e == t || e.msg == t.msg
	}
	return e == target
}

// As finds the first error in err's chain that matches target, and if so, sets target to that error value and returns true.
// (a shortcut to standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to standard lib errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}

// Combine merges several errors into one, skipping nil ones.
func Combine(errs ...error) error {
	return multierr.Combine(errs...)
}

// Errors returns the individual errors merged by Combine.
func Errors(err error) []error {
	return multierr.Errors(err)
}
