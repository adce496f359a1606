// Package router defines the route contract between loaded modules and the
// host application's router, plus the duplicate-admission guard applied
// before a candidate route is handed to the router.
//
// The router itself is a host-owned collaborator; this package only defines
// the interface the loader consumes and a small in-memory implementation
// used by the CLI and by tests.
package router

// Route describes one navigation route contributed by a module. Children
// are registered as part of their parent's AddRoute call, mirroring the
// hierarchical registration of host routers.
type Route struct {
	// Path is the route's path pattern (e.g. "/admin").
	Path string `json:"path"`

	// Name is the route's unique name. Optional; unnamed routes are
	// deduplicated by path.
	Name string `json:"name,omitempty"`

	// Component identifies the view the route renders. Opaque to the
	// loader; passed through to the host router unmodified.
	Component string `json:"component,omitempty"`

	// Meta carries arbitrary route metadata.
	Meta map[string]any `json:"meta,omitempty"`

	// Children are nested child routes.
	Children []Route `json:"children,omitempty"`
}

// Router is the collaborator interface the loader needs from the host's
// router. Implementations are expected to be mutated in place; the loader
// never replaces the router.
type Router interface {
	// HasRoute reports whether a route is registered under name,
	// including routes registered as children.
	HasRoute(name string) bool

	// Routes returns the currently registered top-level routes.
	Routes() []Route

	// AddRoute registers a top-level route and its children.
	AddRoute(r Route) error
}
