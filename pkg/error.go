package pkg

// Sentinel errors shared by the guard command and its subpackages.
// Wrapped causes remain reachable through errors.Is and errors.As.

import (
	"fmt"
	"slices"
	"strings"
)

// Error represents a chain of errors.
type Error []error

// ErrLoadPackages is returned when loading Go packages for rewriting fails.
//
// This error should be wrapped with the underlying loader error
// to preserve the error chain.
var ErrLoadPackages = MakeErrorf("failed to load packages")

// ErrRewrite is returned when expanding guard invocations in a file fails.
//
// This error should be wrapped with the underlying diagnostic so the
// invocation site and diagnostic kind survive the chain.
var ErrRewrite = MakeErrorf("guard expansion failed")

// ErrWriteOutput is returned when writing a rewritten source file fails.
//
// This error should be wrapped with the underlying I/O error
// to preserve the error chain.
var ErrWriteOutput = MakeErrorf("failed to write output")

// ErrWriteConfig is returned when generating the configuration file fails.
var ErrWriteConfig = MakeErrorf("failed to write configuration file")

// ErrFileExists is returned when a target file exists and overwriting it
// was not requested.
var ErrFileExists = MakeErrorf("file exists")

// ErrDiagnostics is returned by the check command when one or more
// invocations failed validation.
var ErrDiagnostics = MakeErrorf("invalid guard invocations")

// MakeError constructs an Error from the given errors.
// The errors are stored in the order they are provided:
// the first argument is the innermost error in the chain.
// Nil is returned if no errors are provided.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf constructs an Error from a formatted error message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error returns a concatenated string representation of all errors
// in the error chain, separated by ": ", from innermost to outermost.
func (e Error) Error() string {
	var sb strings.Builder

	for i, err := range slices.All(e) {
		if i > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Wrap appends one or more errors to the receiver and returns the result.
func (e Error) Wrap(err ...error) Error {
	return append(e, err...)
}

// Wrapf appends a formatted error to the receiver and returns the result.
func (e Error) Wrapf(format string, args ...any) Error {
	return append(e, fmt.Errorf(format, args...))
}

// Unwrap returns the slice of errors contained in the receiver.
func (e Error) Unwrap() []error {
	return e
}

// UnwrapErrors recursively unwraps an error chain and returns a slice
// containing all errors in the chain, starting from the innermost error.
// An [Error] container is flattened into its elements rather than appearing
// in the chain itself, since it carries no message of its own.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	chain := Error{}

	if e, ok := err.(Error); ok {
		for _, wrapped := range e {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}

		return chain
	}

	if e, ok := err.(interface{ Unwrap() []error }); ok {
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}
	} else if e, ok := err.(interface{ Unwrap() error }); ok {
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}
