package loader

import "github.com/appshell/modloader/internal/module"

// NamespaceStrategy decides the locale namespace for a bundle that does
// not declare one itself. It is a closed variant: either the module's own
// name or a caller-supplied function of (name, bundle). The zero value
// behaves like NamespaceModuleName.
type NamespaceStrategy struct {
	fn func(name string, b *module.Bundle) string
}

// NamespaceModuleName namespaces each module's messages under its own
// name.
func NamespaceModuleName() NamespaceStrategy {
	return NamespaceStrategy{}
}

// NamespaceFunc derives the namespace from the module name and bundle.
// Returning the empty string merges at the message root.
func NamespaceFunc(fn func(name string, b *module.Bundle) string) NamespaceStrategy {
	return NamespaceStrategy{fn: fn}
}

func (s NamespaceStrategy) namespaceFor(name string, b *module.Bundle) string {
	if s.fn == nil {
		return name
	}
	return s.fn(name, b)
}
