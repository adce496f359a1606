package cmd

// ExitError carries a specific process exit code alongside the error that
// caused it.
type ExitError struct {
	Err  error
	Code int

	// Printed marks whether the command layer already reported the
	// error, so main does not print it twice.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}
