package config

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ExitCoder is implemented by errors that choose their process exit status.
type ExitCoder interface {
	ExitCode() int
}

// ExitCode returns 0 for a nil error, the code of the first ExitCoder in the
// chain, or 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

// WithExitCode wraps err so that ExitCode reports code.
func WithExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &exitError{err: err, code: code}
}

type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

// Fail writes "Error: err" to w and returns the exit code for err.
func Fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)
	return ExitCode(err)
}

// Exit writes err to stderr and exits with its code.
func Exit(err error) {
	os.Exit(Fail(os.Stderr, err))
}
