// Package errors provides structured load-failure errors for the modloader
// CLI.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Stage identifies the load-pass step a failure occurred in.
type Stage string

const (
	// StageResolve covers entry-source resolution.
	StageResolve Stage = "resolve"

	// StageStyles covers stylesheet attachment.
	StageStyles Stage = "styles"

	// StageCode covers fetching and evaluating module code.
	StageCode Stage = "code"

	// StageValidate covers bundle validation.
	StageValidate Stage = "validate"

	// StageRoutes covers route registration.
	StageRoutes Stage = "routes"

	// StageInstall covers the module's install hook.
	StageInstall Stage = "install"
)

// LoadError ties a failure to the module and load stage it occurred in.
type LoadError struct {
	// Module is the display name of the failing module reference.
	Module string

	// Stage is the load step that failed.
	Stage Stage

	// Hint provides actionable guidance (optional).
	Hint string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	var b strings.Builder
	if e.Module != "" {
		fmt.Fprintf(&b, "module %s: ", e.Module)
	}
	if e.Stage != "" {
		fmt.Fprintf(&b, "%s: ", e.Stage)
	}
	b.WriteString(e.Err.Error())
	if e.Hint != "" {
		fmt.Fprintf(&b, " (hint: %s)", e.Hint)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// New creates a LoadError for the given module and stage.
func New(module string, stage Stage, err error) *LoadError {
	return &LoadError{Module: module, Stage: stage, Err: err}
}

// WithHint attaches actionable guidance to the error.
func (e *LoadError) WithHint(hint string) *LoadError {
	e.Hint = hint
	return e
}

// StageOf extracts the load stage from an error chain. Returns the empty
// string when no LoadError is present.
func StageOf(err error) Stage {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Stage
	}
	return ""
}
