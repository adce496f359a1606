package codeload_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appshell/modloader/internal/codeload"
	"github.com/appshell/modloader/internal/host"
	"github.com/appshell/modloader/internal/module"
)

const adminModuleSource = `package adminmodule

var Module = map[string]any{
	"name":    "admin",
	"version": "1.0.0",
	"routes": []any{
		map[string]any{
			"path": "/admin",
			"name": "admin-index",
			"children": []any{
				map[string]any{"path": "users", "name": "admin-users"},
			},
		},
	},
	"locales": map[string]any{
		"en": map[string]any{"greeting": "hi"},
	},
}
`

const funcModuleSource = `package reportsmodule

func Module() (map[string]any, error) {
	return map[string]any{
		"name": "reports",
	}, nil
}
`

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "module.go")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestGoSource_LoadFromFile(t *testing.T) {
	path := writeSource(t, adminModuleSource)

	b, err := codeload.NewGoSource().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "admin", b.Name)
	assert.Equal(t, "1.0.0", b.Version)
	require.Len(t, b.Routes, 1)
	assert.Equal(t, "/admin", b.Routes[0].Path)
	require.Len(t, b.Routes[0].Children, 1)
	assert.Equal(t, "admin-users", b.Routes[0].Children[0].Name)
	assert.Equal(t, map[string]any{"en": map[string]any{"greeting": "hi"}}, b.Locales)
	assert.Nil(t, b.Namespace)
}

func TestGoSource_LoadFromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(funcModuleSource))
	}))
	defer srv.Close()

	b, err := codeload.NewGoSource().Load(context.Background(), srv.URL+"/module.go")
	require.NoError(t, err)
	assert.Equal(t, "reports", b.Name)
}

func TestGoSource_MissingModuleDeclaration(t *testing.T) {
	path := writeSource(t, "package empty\n\nvar Other = 1\n")

	_, err := codeload.NewGoSource().Load(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, module.ErrInvalidBundle)
}

func TestGoSource_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := codeload.NewGoSource().Load(context.Background(), srv.URL+"/module.go")
	assert.ErrorContains(t, err, "status 500")
}

func TestFromMap_NamespaceDeclaration(t *testing.T) {
	t.Run("absent defers to the caller strategy", func(t *testing.T) {
		b, err := codeload.FromMap(map[string]any{"name": "x"})
		require.NoError(t, err)
		assert.Nil(t, b.Namespace)
	})

	t.Run("explicit nil means merge at the root", func(t *testing.T) {
		b, err := codeload.FromMap(map[string]any{"name": "x", "i18nNamespace": nil})
		require.NoError(t, err)
		require.NotNil(t, b.Namespace)
		assert.Empty(t, *b.Namespace)
	})

	t.Run("explicit name is used verbatim", func(t *testing.T) {
		b, err := codeload.FromMap(map[string]any{"name": "x", "i18nNamespace": "custom"})
		require.NoError(t, err)
		require.NotNil(t, b.Namespace)
		assert.Equal(t, "custom", *b.Namespace)
	})
}

func TestFromMap_Hooks(t *testing.T) {
	installed := false
	raw := map[string]any{
		"name": "hooked",
		"install": func(h *host.Context) error {
			installed = true
			return nil
		},
		"onUnload": func() error { return nil },
	}

	b, err := codeload.FromMap(raw)
	require.NoError(t, err)
	require.NotNil(t, b.Install)
	require.NotNil(t, b.OnUnload)

	require.NoError(t, b.Install(&host.Context{}))
	assert.True(t, installed)
	assert.NoError(t, b.OnUnload())
}

func TestFromMap_BadShapes(t *testing.T) {
	_, err := codeload.FromMap(map[string]any{"name": "x", "routes": "not a list"})
	assert.ErrorIs(t, err, module.ErrInvalidBundle)

	_, err = codeload.FromMap(map[string]any{"name": "x", "install": "not a func"})
	assert.ErrorIs(t, err, module.ErrInvalidBundle)
}
