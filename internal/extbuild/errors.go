package extbuild

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInvocation = errors.New("invalid invocation")
	ErrCommandFailed     = errors.New("command failed")
	ErrMissingArtifact   = errors.New("expected artifact missing")
)

// Returned when an external tool exits with a non-zero status.
type ExitError struct {
	Name string // Invocation name.
	Code int    // Exit status of the tool.
	Log  string // Log file holding the tool's output, if any.
}

func (e *ExitError) Error() string {
	if e.Log != "" {
		return fmt.Sprintf("%s exited with status %d (see %s)", e.Name, e.Code, e.Log)
	}
	return fmt.Sprintf("%s exited with status %d", e.Name, e.Code)
}

func (e *ExitError) Unwrap() error {
	return ErrCommandFailed
}
