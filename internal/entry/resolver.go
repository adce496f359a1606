// Package entry resolves a module reference's candidate entry descriptors
// into a single normalized load address.
package entry

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/appshell/modloader/internal/manifest"
)

// Kind identifies which entry source a reference resolved to.
type Kind string

const (
	// KindDev is an unbundled development source served by a transform
	// server; its address is used verbatim.
	KindDev Kind = "dev"

	// KindPrebuilt is a pre-built artifact resolved against the
	// reference's base location.
	KindPrebuilt Kind = "prebuilt"

	// KindPackage is a bare package specifier or absolute address.
	KindPackage Kind = "package"
)

// Resolved is the normalized outcome of entry resolution.
type Resolved struct {
	Kind    Kind
	Address string

	// Styles are stylesheet addresses resolved against the same base as
	// a pre-built entry. Empty for other kinds.
	Styles []string
}

// Options controls resolution. Deployment posture is explicit caller
// configuration, never inferred from ambient build state.
type Options struct {
	// PreferDev selects the development source when one is present and
	// allowed.
	PreferDev bool

	// Production marks the deployment posture. Development sources are
	// refused in production unless AllowDevInProduction is set.
	Production bool

	// AllowDevInProduction permits development sources in production.
	AllowDevInProduction bool

	// ResolvePackage turns a bare package specifier into a loadable
	// address. May perform I/O. When nil, bare specifiers pass through
	// unresolved for the code loader's own resolution mechanism.
	ResolvePackage func(ctx context.Context, specifier string) (string, error)
}

// devAllowed reports whether development sources may be used.
func (o Options) devAllowed() bool {
	return !o.Production || o.AllowDevInProduction
}

// Resolve picks ref's entry source by fixed precedence: development source
// (when preferred and allowed), then pre-built base+entry, then package
// specifier. A reference whose Prefer tag names a source is pinned to that
// source alone.
//
// The second return value is false when no descriptor is usable; the
// caller skips the reference with a warning rather than recording an
// error. A non-nil error only arises from a failing ResolvePackage call.
func Resolve(ctx context.Context, ref manifest.ModuleReference, opts Options) (Resolved, bool, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(ref.Prefer))) {
	case KindDev:
		return resolveDev(ref, opts)
	case KindPrebuilt:
		return resolvePrebuilt(ref)
	case KindPackage:
		return resolvePackage(ctx, ref, opts)
	}

	if r, ok, err := resolveDev(ref, opts); ok || err != nil {
		return r, ok, err
	}
	if r, ok, err := resolvePrebuilt(ref); ok || err != nil {
		return r, ok, err
	}
	return resolvePackage(ctx, ref, opts)
}

func resolveDev(ref manifest.ModuleReference, opts Options) (Resolved, bool, error) {
	if ref.DevEntry == "" || !opts.PreferDev || !opts.devAllowed() {
		return Resolved{}, false, nil
	}
	// Verbatim: the development transform server owns address validity.
	return Resolved{Kind: KindDev, Address: ref.DevEntry}, true, nil
}

func resolvePrebuilt(ref manifest.ModuleReference) (Resolved, bool, error) {
	if ref.BaseURL == "" || ref.Entry == "" {
		return Resolved{}, false, nil
	}
	addr, err := resolveAgainst(ref.BaseURL, ref.Entry)
	if err != nil {
		return Resolved{}, false, fmt.Errorf("resolving entry %q against base %q: %w", ref.Entry, ref.BaseURL, err)
	}
	styles := make([]string, 0, len(ref.Styles))
	for _, s := range ref.Styles {
		href, err := resolveAgainst(ref.BaseURL, s)
		if err != nil {
			return Resolved{}, false, fmt.Errorf("resolving stylesheet %q against base %q: %w", s, ref.BaseURL, err)
		}
		styles = append(styles, href)
	}
	return Resolved{Kind: KindPrebuilt, Address: addr, Styles: styles}, true, nil
}

func resolvePackage(ctx context.Context, ref manifest.ModuleReference, opts Options) (Resolved, bool, error) {
	if ref.Package == "" {
		return Resolved{}, false, nil
	}
	if isAbsolute(ref.Package) {
		return Resolved{Kind: KindPackage, Address: ref.Package}, true, nil
	}
	if opts.ResolvePackage != nil {
		addr, err := opts.ResolvePackage(ctx, ref.Package)
		if err != nil {
			return Resolved{}, false, fmt.Errorf("resolving package specifier %q: %w", ref.Package, err)
		}
		return Resolved{Kind: KindPackage, Address: addr}, true, nil
	}
	// Bare specifier passes through; the host is assumed to have
	// arranged external resolution visible to the code loader.
	return Resolved{Kind: KindPackage, Address: ref.Package}, true, nil
}

// resolveAgainst resolves rel against base. An already-absolute rel is
// used as-is. The base is treated as a directory; base itself may be
// relative to the current origin.
func resolveAgainst(base, rel string) (string, error) {
	if isAbsolute(rel) {
		return rel, nil
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	bu, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	ru, err := url.Parse(rel)
	if err != nil {
		return "", err
	}
	return bu.ResolveReference(ru).String(), nil
}

// isAbsolute reports whether s is a full network address (or
// protocol-relative) that bypasses base resolution.
func isAbsolute(s string) bool {
	if strings.HasPrefix(s, "//") {
		return true
	}
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}
