// Package testutil provides shared helpers for modloader tests.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/appshell/modloader/internal/codeload"
	"github.com/appshell/modloader/internal/manifest"
	"github.com/appshell/modloader/internal/module"
)

// SilentLogger returns a logger that discards everything, keeping test
// output readable.
func SilentLogger() *log.Logger {
	return log.New(io.Discard)
}

// ManifestServer starts an HTTP server that serves refs as a JSON module
// index on every path. The server is shut down when the test ends.
func ManifestServer(t *testing.T, refs []manifest.ModuleReference) *httptest.Server {
	t.Helper()
	payload, err := json.Marshal(refs)
	if err != nil {
		t.Fatalf("encoding manifest fixture: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// FakeCode returns a deterministic code loader serving bundles by
// address. Addresses not in the map fail the load.
func FakeCode(bundles map[string]*module.Bundle) codeload.Loader {
	return codeload.Func(func(_ context.Context, address string) (*module.Bundle, error) {
		b, ok := bundles[address]
		if !ok {
			return nil, fmt.Errorf("no module code at %s", address)
		}
		return b, nil
	})
}

// FailingCode returns a code loader that always fails with err.
func FailingCode(err error) codeload.Loader {
	return codeload.Func(func(context.Context, string) (*module.Bundle, error) {
		return nil, err
	})
}
