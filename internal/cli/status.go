package cli

import (
	"errors"
	"fmt"

	"simple/internal/exitcodes"
)

// StatusError carries a non-zero exit status out of a command that itself
// completed normally, e.g. a run with failing tests
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps a command error to the process exit code. Errors that are
// not a StatusError are configuration, discovery or runtime errors.
func ExitCode(err error) int {
	if err == nil {
		return exitcodes.Success
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return exitcodes.RuntimeErr
}
