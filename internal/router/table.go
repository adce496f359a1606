package router

// Table is an in-memory Router implementation. The CLI's stand-in host and
// the test suite use it in place of a real application router.
type Table struct {
	routes []Route
	names  map[string]struct{}
}

// NewTable creates an empty route table.
func NewTable() *Table {
	return &Table{names: make(map[string]struct{})}
}

// HasRoute reports whether name is registered, including names introduced
// by child routes.
func (t *Table) HasRoute(name string) bool {
	_, ok := t.names[name]
	return ok
}

// Routes returns the registered top-level routes.
func (t *Table) Routes() []Route {
	return t.routes
}

// AddRoute registers r and indexes the names of r and all its descendants.
func (t *Table) AddRoute(r Route) error {
	t.routes = append(t.routes, r)
	t.index(r)
	return nil
}

func (t *Table) index(r Route) {
	if r.Name != "" {
		t.names[r.Name] = struct{}{}
	}
	for _, child := range r.Children {
		t.index(child)
	}
}
