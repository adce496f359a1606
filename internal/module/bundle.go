// Package module defines the contract object a loadable module's code must
// produce, and its validation.
package module

import (
	"errors"
	"fmt"
	"strings"

	"github.com/appshell/modloader/internal/host"
	"github.com/appshell/modloader/internal/router"
)

// ErrInvalidBundle indicates loaded module code did not produce a usable
// bundle.
var ErrInvalidBundle = errors.New("invalid module bundle")

// Bundle is the artifact produced by loading a module's entry code. Its
// Name is authoritative over the manifest reference's name for all
// downstream operations.
type Bundle struct {
	// Name identifies the module and doubles as its default locale
	// namespace. A bundle with an empty name is invalid.
	Name string

	// Version is informational, used in diagnostics only.
	Version string

	// Routes are the navigation routes the module contributes, in
	// declaration order.
	Routes []router.Route

	// Locales maps language tags to nested message trees. Values that
	// are not maps are treated as empty at merge time.
	Locales map[string]any

	// Namespace overrides the configured namespace strategy. Nil defers
	// to the strategy; a pointer to the empty string means "merge at the
	// message root"; a non-empty value names an explicit namespace.
	Namespace *string

	// Install runs synchronously after the module's routes and locales
	// are settled. Optional.
	Install func(*host.Context) error

	// OnUnload is the optional teardown hook contract. The loader never
	// invokes it; it is retained for hosts that implement deactivation.
	OnUnload func() error
}

// Validate reports whether the bundle satisfies the module contract.
func (b *Bundle) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: module code produced no bundle", ErrInvalidBundle)
	}
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: bundle name is empty", ErrInvalidBundle)
	}
	return nil
}
