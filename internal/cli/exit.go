package cli

import "fmt"

const (
	exitActionFailed = 2
	exitNotLoggedIn  = 3
)

// ExitError carries the process exit code back to main.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func exitError(code int, format string, args ...any) *ExitError {
	return &ExitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
