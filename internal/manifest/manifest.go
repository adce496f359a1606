// Package manifest defines the module reference format published by a
// module index and the fetch path that turns the published document into
// references the loader can process.
package manifest

import "strings"

// DefaultLocation is the manifest location used when the caller does not
// override it.
const DefaultLocation = "/modules/index.json"

// ModuleReference is one manifest entry identifying a module and its
// candidate entry-point sources. The three descriptors are mutually
// optional; a reference with none of them is skipped at resolution time,
// never a crash.
type ModuleReference struct {
	// Name is the unique human identifier, used as the default locale
	// namespace until the loaded bundle's own name takes over.
	Name string `json:"name"`

	// Version is informational, used in diagnostics only.
	Version string `json:"version,omitempty"`

	// DevEntry is a direct, unbundled source address understood by a
	// development-time transform server. Used verbatim when development
	// sources are preferred and allowed.
	DevEntry string `json:"devEntry,omitempty"`

	// BaseURL and Entry together describe a pre-built module: Entry is
	// resolved against BaseURL unless it is already absolute.
	BaseURL string `json:"baseUrl,omitempty"`
	Entry   string `json:"entry,omitempty"`

	// Styles are stylesheet filenames resolved against BaseURL and
	// attached before the module's code is loaded.
	Styles []string `json:"styles,omitempty"`

	// Package is a bare specifier resolvable through an external
	// resolution function, or a full absolute address used directly.
	Package string `json:"package,omitempty"`

	// Prefer optionally forces which source kind is attempted ("dev",
	// "prebuilt" or "package").
	Prefer string `json:"prefer,omitempty"`
}

// HasEntry reports whether the reference carries at least one entry
// descriptor.
func (r ModuleReference) HasEntry() bool {
	return r.DevEntry != "" || (r.BaseURL != "" && r.Entry != "") || r.Package != ""
}

// Display returns "name@version" for diagnostics, omitting an empty
// version.
func (r ModuleReference) Display() string {
	if strings.TrimSpace(r.Version) == "" {
		return r.Name
	}
	return r.Name + "@" + r.Version
}
