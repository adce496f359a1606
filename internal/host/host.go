// Package host carries the opaque handles to the running application that
// the loader threads through to module install hooks and to the route and
// locale operations. The host owns every handle; the loader never
// constructs or destroys them.
package host

import (
	"github.com/appshell/modloader/internal/i18n"
	"github.com/appshell/modloader/internal/router"
)

// Document is the stylesheet sink for pre-built modules that ship styles.
// Stylesheet links are attached before the module's code is loaded so the
// code can assume its styles are already present.
type Document interface {
	AppendStylesheet(href string) error
}

// Context bundles the host handles passed to every module install hook.
type Context struct {
	// App is the host application instance. Opaque; passed through to
	// install hooks only.
	App any

	// Router is the host's route table.
	Router router.Router

	// I18n is the host's localization store.
	I18n i18n.Store

	// Store is the host's shared-state store. Opaque; passed through
	// only.
	Store any

	// Document receives stylesheet links for pre-built modules. May be
	// nil when the host has no document (headless hosts skip styles).
	Document Document
}
