package manifest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appshell/modloader/internal/manifest"
	"github.com/appshell/modloader/internal/testutil"
)

func TestFetch_ParsesIndex(t *testing.T) {
	var gotCacheControl string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCacheControl = r.Header.Get("Cache-Control")
		_, _ = w.Write([]byte(`[{"name":"admin","version":"1.0.0","baseUrl":"/modules/admin/1.0.0/","entry":"index.js"}]`))
	}))
	defer srv.Close()

	refs := manifest.Fetch(context.Background(), srv.URL, manifest.DefaultFetch, nil, testutil.SilentLogger())

	require.Len(t, refs, 1)
	assert.Equal(t, "admin", refs[0].Name)
	assert.Equal(t, "/modules/admin/1.0.0/", refs[0].BaseURL)
	assert.Equal(t, "no-cache", gotCacheControl, "manifest fetch must always revalidate")
}

func TestFetch_NonSuccessStatusYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	refs := manifest.Fetch(context.Background(), srv.URL, manifest.DefaultFetch, nil, testutil.SilentLogger())
	assert.Empty(t, refs)
}

func TestFetch_TransportFailureYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	refs := manifest.Fetch(context.Background(), srv.URL, manifest.DefaultFetch, nil, testutil.SilentLogger())
	assert.Empty(t, refs)
}

func TestFetch_MalformedJSONYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a list"`))
	}))
	defer srv.Close()

	refs := manifest.Fetch(context.Background(), srv.URL, manifest.DefaultFetch, nil, testutil.SilentLogger())
	assert.Empty(t, refs)
}

func TestFetch_TransformRewritesList(t *testing.T) {
	srv := testutil.ManifestServer(t, []manifest.ModuleReference{
		{Name: "admin", Package: "@scope/admin"},
		{Name: "billing", Package: "@scope/billing"},
	})

	transform := func(refs []manifest.ModuleReference) []manifest.ModuleReference {
		out := refs[:0]
		for _, r := range refs {
			if r.Name != "billing" {
				out = append(out, r)
			}
		}
		return out
	}

	refs := manifest.Fetch(context.Background(), srv.URL, manifest.DefaultFetch, transform, testutil.SilentLogger())
	require.Len(t, refs, 1)
	assert.Equal(t, "admin", refs[0].Name)
}

func TestFileFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"admin","package":"@scope/admin"}]`), 0o644))

	refs := manifest.Fetch(context.Background(), path, manifest.FileFetch, nil, testutil.SilentLogger())
	require.Len(t, refs, 1)
	assert.Equal(t, "admin", refs[0].Name)
}

func TestMemoryFetch(t *testing.T) {
	fetch, err := manifest.MemoryFetch([]manifest.ModuleReference{{Name: "adhoc", Package: "@scope/adhoc"}})
	require.NoError(t, err)

	refs := manifest.Fetch(context.Background(), "mem://manifest", fetch, nil, testutil.SilentLogger())
	require.Len(t, refs, 1)
	assert.Equal(t, "adhoc", refs[0].Name)
}

func TestModuleReference_HasEntry(t *testing.T) {
	tests := []struct {
		name string
		ref  manifest.ModuleReference
		want bool
	}{
		{"no descriptors", manifest.ModuleReference{Name: "x"}, false},
		{"dev entry", manifest.ModuleReference{DevEntry: "/src/x.go"}, true},
		{"base without entry", manifest.ModuleReference{BaseURL: "/modules/x/"}, false},
		{"base with entry", manifest.ModuleReference{BaseURL: "/modules/x/", Entry: "index.js"}, true},
		{"package", manifest.ModuleReference{Package: "@scope/x"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.ref.HasEntry())
		})
	}
}

func TestModuleReference_Display(t *testing.T) {
	assert.Equal(t, "admin@1.0.0", manifest.ModuleReference{Name: "admin", Version: "1.0.0"}.Display())
	assert.Equal(t, "admin", manifest.ModuleReference{Name: "admin"}.Display())
}
