package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (unknown name, duplicate name, bad input).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, subprocess, corrupt metadata).
	ExitSystem = 2
)

// Sentinel errors forming the error taxonomy shared by every package.
var (
	// ErrMissingName indicates a required name argument is empty.
	ErrMissingName = errors.New("name is required")

	// ErrInvalidName indicates a name that cannot be used as a directory key.
	ErrInvalidName = errors.New("invalid name")

	// ErrNotFound indicates the named snapshot, container, or file is absent.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a create collided with an existing name.
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnknownComponent indicates a component name missing from the registry.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrIO marks a copy, read, write, or rename failure from the filesystem.
	ErrIO = errors.New("i/o failure")

	// ErrSubprocess marks an external tool that exited non-zero.
	ErrSubprocess = errors.New("subprocess failure")

	// ErrTimeout marks an external tool that exceeded its deadline.
	ErrTimeout = errors.New("subprocess timed out")

	// ErrParse indicates malformed metadata.
	ErrParse = errors.New("malformed metadata")

	// ErrIncomplete indicates a capture directory without metadata.
	ErrIncomplete = errors.New("incomplete capture")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Re-exports from cockroachdb/errors so callers only import this package.
var (
	New      = errors.New
	Newf     = errors.Newf
	Errorf   = errors.Errorf
	Wrap     = errors.Wrap
	Wrapf    = errors.Wrapf
	Is       = errors.Is
	As       = errors.As
	Mark     = errors.Mark
	Unwrap   = errors.Unwrap
	IsAny    = errors.IsAny
	Join     = errors.Join
	WithHint = errors.WithHint
)

// IO wraps err with msg and marks it as ErrIO. The underlying system error
// text is kept intact. A nil err yields nil.
func IO(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrap(err, msg), ErrIO)
}

// IOf is IO with a format string.
func IOf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrapf(err, format, args...), ErrIO)
}

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitUser code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Run: nixdeck config show",
	}
}

// Classify converts err into an ExitError with a code derived from the
// taxonomy. Errors that already carry an ExitError are returned as-is.
func Classify(err error) *ExitError {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return NewUserError(err, "Run the matching list command to see available names")
	case errors.Is(err, ErrAlreadyExists):
		return NewUserError(err, "Choose a different name or delete the existing one first")
	case errors.IsAny(err, ErrUnknownComponent, ErrMissingName, ErrInvalidName):
		return NewUserError(err, "")
	case errors.Is(err, ErrIncomplete):
		return NewSystemError(err, "The capture was interrupted; delete it and create it again")
	default:
		return NewSystemError(err, "")
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}
