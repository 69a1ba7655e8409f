package harness

import (
	"errors"
	"fmt"
)

const (
	// ErrElementNotFound error code, a locator resolved to no element
	ErrElementNotFound = "cannot find element"
	// ErrOptionNotFound error code, a select has no option with the given text or value
	ErrOptionNotFound = "cannot find option"
	// ErrTimeout error code, a bounded wait didn't satisfy its condition in time
	ErrTimeout = "wait timeout"
	// ErrNavigation error code, the page failed to load
	ErrNavigation = "navigation failed"
	// ErrAssertionMismatch error code, the rendered text isn't the expected one
	ErrAssertionMismatch = "assertion mismatch"
	// ErrEval error code, the js raised an exception in the page
	ErrEval = "eval error"
	// ErrUnknownRole error code, a registry has no locator for the role
	ErrUnknownRole = "unknown role"
)

// Error ...
type Error struct {
	Err     error
	Code    string
	Details interface{}
}

// Error ...
func (e *Error) Error() string {
	msg := fmt.Sprintf("[harness] %s: %v", e.Code, e.Details)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap ...
func (e *Error) Unwrap() error {
	return e.Err
}

// IsError type matches, the err can be wrapped
func IsError(err error, code string) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Err
	}
	return false
}

func newErr(code string, details interface{}, err error) *Error {
	return &Error{Err: err, Code: code, Details: details}
}

// Mismatch is the details of ErrAssertionMismatch
type Mismatch struct {
	Expected string
	Actual   string
}

// String ...
func (m Mismatch) String() string {
	return fmt.Sprintf("expected %q, got %q", m.Expected, m.Actual)
}

// AssertText returns an ErrAssertionMismatch error if actual isn't exactly expected
func AssertText(expected, actual string) error {
	if expected == actual {
		return nil
	}
	return newErr(ErrAssertionMismatch, Mismatch{expected, actual}, nil)
}
