package main

import (
	"errors"
	"fmt"
)

// Exit codes for wardround commands.
const (
	exitSuccess      = 0 // Successful execution
	exitFailure      = 1 // Case validation failed
	exitCommandError = 2 // Command error (bad directory, unknown case, bad config)
)

// ExitError is an error that carries a process exit code.
type ExitError struct {
	Code    int    // exitFailure or exitCommandError
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func newExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func wrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// exitCode extracts the exit code from an error.
// Returns exitFailure if the error is not an ExitError.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return exitFailure
}
