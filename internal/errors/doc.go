// Package errors provides error handling conventions for the nixdeck CLI.
//
// The package wraps github.com/cockroachdb/errors and defines the sentinel
// errors that make up the engine's error taxonomy, an ExitError type for CLI
// exit code handling, and exit code constants.
//
// # Taxonomy
//
//   - [ErrNotFound]: named snapshot, container, or file is absent
//   - [ErrAlreadyExists]: duplicate create
//   - [ErrUnknownComponent]: registry miss
//   - [ErrIO]: copy, read, write, or rename failure
//   - [ErrSubprocess]: an external tool exited non-zero
//   - [ErrTimeout]: an external tool exceeded its deadline
//   - [ErrParse]: malformed metadata
//   - [ErrIncomplete]: a capture directory has no metadata
//
// Callers test for a kind with [errors.Is]:
//
//	if errors.Is(err, nderrors.ErrNotFound) {
//	    // handle not found case
//	}
//
// Filesystem failures are wrapped with [IO], which keeps the raw system
// error text and marks the chain with [ErrIO] so that errors.Is matches both
// ErrIO and the original error (for example fs.ErrNotExist).
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (unknown name, duplicate, bad input)
//   - ExitSystem (2): System-related error (I/O, subprocess, metadata)
//
// [Classify] maps any error to an [ExitError] using the taxonomy.
package errors
