// Package codeload defines the capability that turns a resolved entry
// address into a module bundle. The orchestrator depends only on the
// Loader interface, so tests substitute deterministic in-memory loaders
// and never perform real network or interpreter work.
package codeload

import (
	"context"

	"github.com/appshell/modloader/internal/module"
)

// Loader loads a module's entry code from a resolved address and returns
// the bundle the code exports.
type Loader interface {
	Load(ctx context.Context, address string) (*module.Bundle, error)
}

// Func adapts a plain function to the Loader interface.
type Func func(ctx context.Context, address string) (*module.Bundle, error)

// Load implements Loader.
func (f Func) Load(ctx context.Context, address string) (*module.Bundle, error) {
	return f(ctx, address)
}
