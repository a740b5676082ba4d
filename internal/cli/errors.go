package cli

import (
	"errors"

	"github.com/cruciblehq/bootforge/internal/extbuild"
)

// Process exit codes.
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Returned for invalid command lines, including unrecognized platforms.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// Maps an error returned by [Execute] to a process exit code.
//
// Usage errors exit with [ExitUsage]. A failing external tool's own exit
// status is propagated. Anything else exits with [ExitFailure].
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsage
	}

	var exitErr *extbuild.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}

	return ExitFailure
}
