package codeload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/appshell/modloader/internal/host"
	"github.com/appshell/modloader/internal/module"
	"github.com/appshell/modloader/internal/router"
)

// moduleSymbol is the declaration module code must export: either a
// map[string]any bundle value or a niladic function returning one. It is
// the default-export analog of the module entry contract.
const moduleSymbol = "Module"

// maxSourceBytes bounds fetched module source (8 MB).
const maxSourceBytes = 8 << 20

// GoSource loads module entry code written as interpreted Go source. The
// address may be an HTTP(S) URL or a local file path; the source is
// evaluated with yaegi and its Module declaration converted into a bundle.
type GoSource struct {
	client *http.Client
}

// NewGoSource creates a source loader using the default HTTP client.
func NewGoSource() *GoSource {
	return &GoSource{client: http.DefaultClient}
}

// Load implements Loader.
func (l *GoSource) Load(ctx context.Context, address string) (*module.Bundle, error) {
	src, err := l.source(ctx, address)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("module code at %s is empty", address)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("preparing interpreter: %w", err)
	}
	if _, err := i.Eval(src); err != nil {
		return nil, fmt.Errorf("interpreting module code from %s: %w", address, err)
	}

	v, err := i.Eval(moduleSymbol)
	if err != nil {
		return nil, fmt.Errorf("%w: module code at %s declares no %s value", module.ErrInvalidBundle, address, moduleSymbol)
	}
	raw, err := moduleValue(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s at %s: %v", module.ErrInvalidBundle, moduleSymbol, address, err)
	}
	return FromMap(raw)
}

// source fetches module code from an HTTP(S) address or reads it from the
// local filesystem.
func (l *GoSource) source(ctx context.Context, address string) (string, error) {
	if u, err := url.Parse(address); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("Cache-Control", "no-cache")
		resp, err := l.client.Do(req)
		if err != nil {
			return "", fmt.Errorf("fetching module code from %s: %w", address, err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", fmt.Errorf("fetching module code from %s: status %d", address, resp.StatusCode)
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
		if err != nil {
			return "", fmt.Errorf("reading module code from %s: %w", address, err)
		}
		return string(body), nil
	}
	body, err := os.ReadFile(address)
	if err != nil {
		return "", fmt.Errorf("reading module code: %w", err)
	}
	return string(body), nil
}

// moduleValue extracts the bundle map from the evaluated Module symbol,
// accepting either a map value or a niladic function returning
// (map[string]any) or (map[string]any, error).
func moduleValue(v reflect.Value) (map[string]any, error) {
	if !v.IsValid() {
		return nil, fmt.Errorf("missing %s declaration", moduleSymbol)
	}
	if v.Kind() == reflect.Func {
		if v.Type().NumIn() != 0 {
			return nil, fmt.Errorf("%s must take no arguments", moduleSymbol)
		}
		results := v.Call(nil)
		if len(results) == 0 || len(results) > 2 {
			return nil, fmt.Errorf("%s must return (map[string]any) or (map[string]any, error)", moduleSymbol)
		}
		if len(results) == 2 && !results[1].IsNil() {
			if e, ok := results[1].Interface().(error); ok {
				return nil, e
			}
			return nil, fmt.Errorf("%s returned a non-error second value", moduleSymbol)
		}
		v = results[0]
	}
	m, ok := v.Interface().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be (or return) map[string]any, got %T", moduleSymbol, v.Interface())
	}
	return m, nil
}

// FromMap converts a raw bundle map, as produced by interpreted module
// code, into a typed Bundle. Unknown keys are ignored.
func FromMap(raw map[string]any) (*module.Bundle, error) {
	b := &module.Bundle{}
	b.Name, _ = raw["name"].(string)
	b.Version, _ = raw["version"].(string)
	b.Locales, _ = raw["locales"].(map[string]any)

	if nsRaw, ok := raw["i18nNamespace"]; ok {
		// Explicitly declared: nil and "" both mean "merge at the root".
		ns, _ := nsRaw.(string)
		b.Namespace = &ns
	}

	if routesRaw, ok := raw["routes"]; ok {
		routes, err := routesFromAny(routesRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", module.ErrInvalidBundle, err)
		}
		b.Routes = routes
	}

	install, err := hookFromAny(raw["install"], "install")
	if err != nil {
		return nil, err
	}
	if install.IsValid() {
		b.Install = func(hc *host.Context) error { return callHook(install, hc) }
	}
	unload, err := hookFromAny(raw["onUnload"], "onUnload")
	if err != nil {
		return nil, err
	}
	if unload.IsValid() {
		b.OnUnload = func() error { return callHook(unload, nil) }
	}
	return b, nil
}

func routesFromAny(v any) ([]router.Route, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("routes must be a list, got %T", v)
	}
	routes := make([]router.Route, 0, len(list))
	for idx, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("routes[%d] must be a map, got %T", idx, item)
		}
		var rt router.Route
		rt.Path, _ = m["path"].(string)
		rt.Name, _ = m["name"].(string)
		rt.Component, _ = m["component"].(string)
		rt.Meta, _ = m["meta"].(map[string]any)
		if children, ok := m["children"]; ok {
			nested, err := routesFromAny(children)
			if err != nil {
				return nil, fmt.Errorf("routes[%d]: %w", idx, err)
			}
			rt.Children = nested
		}
		routes = append(routes, rt)
	}
	return routes, nil
}

// hookFromAny validates an optional hook value and returns its callable
// form, or an invalid Value when absent.
func hookFromAny(v any, key string) (reflect.Value, error) {
	if v == nil {
		return reflect.Value{}, nil
	}
	fv := reflect.ValueOf(v)
	if fv.Kind() != reflect.Func {
		return reflect.Value{}, fmt.Errorf("%w: %s must be a function, got %T", module.ErrInvalidBundle, key, v)
	}
	return fv, nil
}

func callHook(fn reflect.Value, hc *host.Context) error {
	t := fn.Type()
	var args []reflect.Value
	if t.NumIn() == 1 {
		in := t.In(0)
		switch {
		case hc == nil:
			return fmt.Errorf("hook must take no arguments")
		case reflect.TypeOf(hc).AssignableTo(in),
			in.Kind() == reflect.Interface && in.NumMethod() == 0:
			args = append(args, reflect.ValueOf(hc))
		default:
			return fmt.Errorf("hook parameter %s is not satisfiable", in)
		}
	} else if t.NumIn() != 0 {
		return fmt.Errorf("hook must take zero or one argument")
	}
	results := fn.Call(args)
	if len(results) > 0 {
		if e, ok := results[len(results)-1].Interface().(error); ok && e != nil {
			return e
		}
	}
	return nil
}
