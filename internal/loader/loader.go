// Package loader orchestrates one manifest-processing pass: it fetches the
// module index, resolves each reference's entry source, loads the module's
// code through the injected code loader, and wires the resulting bundle's
// stylesheets, locales, routes and install hook into the host.
//
// Failures are isolated per entry: one module's failure never aborts the
// pass, and the caller always receives a valid Result.
package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/appshell/modloader/internal/codeload"
	"github.com/appshell/modloader/internal/entry"
	loaderr "github.com/appshell/modloader/internal/errors"
	"github.com/appshell/modloader/internal/host"
	"github.com/appshell/modloader/internal/i18n"
	"github.com/appshell/modloader/internal/manifest"
	"github.com/appshell/modloader/internal/module"
	"github.com/appshell/modloader/internal/output"
	"github.com/appshell/modloader/internal/router"
)

// Loaded pairs a successfully activated bundle with the manifest reference
// it came from.
type Loaded struct {
	Bundle *module.Bundle
	Ref    manifest.ModuleReference
}

// Error pairs a failed reference with the error that stopped it.
type Error struct {
	Ref manifest.ModuleReference
	Err error
}

// Result is the aggregate outcome of one pass, in manifest order.
type Result struct {
	Loaded []Loaded
	Errors []Error
}

// Options is the caller configuration surface for a load pass.
type Options struct {
	// Manifest is the module index location. Defaults to
	// manifest.DefaultLocation.
	Manifest string

	// Fetch overrides the manifest fetch transport.
	Fetch manifest.FetchFunc

	// Transform optionally remaps the parsed manifest before loading.
	Transform manifest.Transform

	// Code loads module entry code. Required.
	Code codeload.Loader

	// Entry controls entry-source precedence and package resolution.
	Entry entry.Options

	// Namespace decides the locale namespace for bundles that do not
	// declare one. The zero value uses the module name.
	Namespace NamespaceStrategy

	// RoutePolicy is the duplicate-route admission policy. The zero
	// value deduplicates by name.
	RoutePolicy router.DedupPolicy

	// StepTimeout bounds each entry's code load. Zero means no bound; a
	// stall then blocks that entry indefinitely.
	StepTimeout time.Duration

	// OnLoaded and OnError are optional per-module callbacks.
	OnLoaded func(b *module.Bundle, ref manifest.ModuleReference)
	OnError  func(ref manifest.ModuleReference, err error)

	// Logger overrides the diagnostic sink.
	Logger *log.Logger
}

// Loader runs load passes against one host.
type Loader struct {
	host *host.Context
	opts Options
	log  *log.Logger
}

// New creates a loader for the given host. The host's router and locale
// store are mutated in place during passes; the loader never replaces
// them.
func New(hc *host.Context, opts Options) *Loader {
	if opts.Manifest == "" {
		opts.Manifest = manifest.DefaultLocation
	}
	if opts.RoutePolicy == "" {
		opts.RoutePolicy = router.DedupByName
	}
	logger := opts.Logger
	if logger == nil {
		logger = output.Logger
	}
	return &Loader{host: hc, opts: opts, log: logger}
}

// Load runs one pass over the configured manifest. Entries are processed
// sequentially in manifest order so diagnostics and duplicate-route
// outcomes are deterministic. A manifest that cannot be fetched or parsed
// yields an empty Result, never an error.
func (l *Loader) Load(ctx context.Context) *Result {
	refs := manifest.Fetch(ctx, l.opts.Manifest, l.opts.Fetch, l.opts.Transform, l.log)
	res := &Result{}
	for _, ref := range refs {
		l.loadOne(ctx, ref, res)
	}
	return res
}

// LoadReference loads a single module reference ad hoc, bypassing the
// configured manifest location. The reference is marshaled into a
// transient in-memory manifest document and run through the same pass
// machinery, then the document is released with the pass.
func (l *Loader) LoadReference(ctx context.Context, ref manifest.ModuleReference) *Result {
	fetch, err := manifest.MemoryFetch([]manifest.ModuleReference{ref})
	if err != nil {
		res := &Result{}
		l.fail(res, ref, err)
		return res
	}
	sub := *l
	sub.opts.Manifest = "mem://manifest"
	sub.opts.Fetch = fetch
	sub.opts.Transform = nil
	return sub.Load(ctx)
}

// loadOne walks one reference through styles, entry resolution, code
// load, validation, locale merge, route registration and the install
// hook. Any step error records a failure for this entry only.
func (l *Loader) loadOne(ctx context.Context, ref manifest.ModuleReference, res *Result) {
	resolved, ok, err := entry.Resolve(ctx, ref, l.opts.Entry)
	if err != nil {
		l.fail(res, ref, loaderr.New(ref.Display(), loaderr.StageResolve, err))
		return
	}
	if !ok {
		// Nothing to do, not a load error.
		l.log.Warn("module has no usable entry source, skipping", "module", ref.Display())
		return
	}
	l.log.Debug("entry resolved", "module", ref.Display(), "kind", resolved.Kind, "address", resolved.Address)

	// Styles attach before the module's code loads so the code can
	// assume they are present. A style failure is fatal to the entry.
	if err := l.attachStyles(resolved.Styles); err != nil {
		l.fail(res, ref, loaderr.New(ref.Display(), loaderr.StageStyles, err))
		return
	}

	bundle, err := l.loadCode(ctx, resolved.Address)
	if err != nil {
		err = fmt.Errorf("loading %s: %w", resolved.Address, err)
		l.fail(res, ref, loaderr.New(ref.Display(), loaderr.StageCode, err))
		return
	}
	if err := bundle.Validate(); err != nil {
		l.fail(res, ref, loaderr.New(ref.Display(), loaderr.StageValidate, err))
		return
	}

	l.mergeLocales(bundle)
	if err := l.registerRoutes(bundle); err != nil {
		l.fail(res, ref, loaderr.New(ref.Display(), loaderr.StageRoutes, err))
		return
	}

	// Install runs after routes and locales are settled. A hook error
	// fails the entry, but nothing already applied is rolled back.
	if bundle.Install != nil {
		if err := bundle.Install(l.host); err != nil {
			err = fmt.Errorf("install hook: %w", err)
			l.fail(res, ref, loaderr.New(ref.Display(), loaderr.StageInstall, err))
			return
		}
	}

	res.Loaded = append(res.Loaded, Loaded{Bundle: bundle, Ref: ref})
	l.log.Info("module loaded", "module", bundle.Name, "version", bundle.Version)
	if l.opts.OnLoaded != nil {
		l.opts.OnLoaded(bundle, ref)
	}
}

// loadCode invokes the code loader, bounded by StepTimeout when one is
// configured. A stall converts into a per-entry error rather than hanging
// the pass.
func (l *Loader) loadCode(ctx context.Context, address string) (*module.Bundle, error) {
	if l.opts.Code == nil {
		return nil, fmt.Errorf("no code loader configured")
	}
	if l.opts.StepTimeout <= 0 {
		return l.opts.Code.Load(ctx, address)
	}

	ctx, cancel := context.WithTimeout(ctx, l.opts.StepTimeout)
	defer cancel()

	type outcome struct {
		bundle *module.Bundle
		err    error
	}
	ch := make(chan outcome, 1)
	go func() {
		b, err := l.opts.Code.Load(ctx, address)
		ch <- outcome{bundle: b, err: err}
	}()
	select {
	case o := <-ch:
		return o.bundle, o.err
	case <-ctx.Done():
		return nil, fmt.Errorf("module code load timed out after %s: %w", l.opts.StepTimeout, ctx.Err())
	}
}

func (l *Loader) attachStyles(styles []string) error {
	if len(styles) == 0 {
		return nil
	}
	if l.host.Document == nil {
		l.log.Debug("host has no document, skipping stylesheets", "count", len(styles))
		return nil
	}
	for _, href := range styles {
		if err := l.host.Document.AppendStylesheet(href); err != nil {
			return fmt.Errorf("attaching stylesheet %s: %w", href, err)
		}
	}
	return nil
}

func (l *Loader) mergeLocales(bundle *module.Bundle) {
	if len(bundle.Locales) == 0 {
		return
	}
	var namespace string
	if bundle.Namespace != nil {
		// An explicit declaration, including the empty string, wins
		// over the configured strategy.
		namespace = *bundle.Namespace
	} else {
		namespace = l.opts.Namespace.namespaceFor(bundle.Name, bundle)
	}
	i18n.MergeLocales(l.host.I18n, namespace, bundle.Locales)
}

func (l *Loader) registerRoutes(bundle *module.Bundle) error {
	for _, rt := range bundle.Routes {
		if !router.ShouldAdmit(l.host.Router, rt, l.opts.RoutePolicy) {
			l.log.Warn("duplicate route skipped", "module", bundle.Name, "path", rt.Path, "name", rt.Name)
			continue
		}
		if err := l.host.Router.AddRoute(rt); err != nil {
			return fmt.Errorf("registering route %s: %w", rt.Path, err)
		}
	}
	return nil
}

func (l *Loader) fail(res *Result, ref manifest.ModuleReference, err error) {
	l.log.Error("module failed to load", "module", ref.Display(), "error", err)
	res.Errors = append(res.Errors, Error{Ref: ref, Err: err})
	if l.opts.OnError != nil {
		l.opts.OnError(ref, err)
	}
}
