package cli

import (
	"errors"
	"fmt"

	"github.com/yaklabco/htmlindent/internal/configloader"
	"github.com/yaklabco/htmlindent/pkg/indent"
)

// Exit codes for htmlindent.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitUnformatted indicates --check found files that would change.
	ExitUnformatted = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrUnformatted is returned when --check finds files that are not formatted.
var ErrUnformatted = errors.New("files are not formatted")

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

func usageError(format string, args ...any) error {
	return withExitCode(ExitInvalidUsage, fmt.Errorf(format, args...))
}

// ExitCode maps an error returned by the root command to an exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, ErrUnformatted):
		return ExitUnformatted
	case errors.Is(err, configloader.ErrConfig):
		return ExitConfigError
	case errors.Is(err, indent.ErrInternalConsistency):
		return ExitInternalError
	default:
		// Cobra reports unknown flags and commands as plain errors.
		return ExitInvalidUsage
	}
}

// fileErrorsCode picks the exit code for a run whose files failed.
func fileErrorsCode(errs []error) int {
	for _, err := range errs {
		if errors.Is(err, indent.ErrInternalConsistency) {
			return ExitInternalError
		}
	}
	return ExitIOError
}
