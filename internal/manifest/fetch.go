package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
)

// maxManifestBytes is the upper bound on manifest size (4 MB). Prevents
// unbounded memory consumption from a malformed or malicious index.
const maxManifestBytes = 4 << 20

// FetchFunc issues the manifest request. The default implementation always
// revalidates so development-time manifest edits are observed without
// manual cache busting.
type FetchFunc func(ctx context.Context, location string) (*http.Response, error)

// Transform optionally remaps the parsed reference list before loading.
// It may filter, reorder, or rewrite entries arbitrarily.
type Transform func(refs []ModuleReference) []ModuleReference

// DefaultFetch fetches location over HTTP with caching disabled.
func DefaultFetch(ctx context.Context, location string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	return http.DefaultClient.Do(req)
}

// FileFetch reads location from the local filesystem and presents it as a
// fetch response, so file-based manifests flow through the same parse
// path. Used by the CLI for local manifest files.
func FileFetch(_ context.Context, location string) (*http.Response, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, err
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(data)),
		Header:     make(http.Header),
	}, nil
}

// MemoryFetch serves a fixed reference list as a transient in-memory
// manifest document. The single-reference ad-hoc load path uses it to
// reuse the manifest pipeline without a network round trip.
func MemoryFetch(refs []ModuleReference) (FetchFunc, error) {
	payload, err := json.Marshal(refs)
	if err != nil {
		return nil, fmt.Errorf("encoding in-memory manifest: %w", err)
	}
	return func(context.Context, string) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader(payload)),
			Header:     make(http.Header),
		}, nil
	}, nil
}

// Fetch retrieves and parses the manifest at location.
//
// Failures never propagate: a non-success status yields an empty list with
// a warning, and transport errors or malformed JSON yield an empty list
// with an error-level diagnostic. The caller always proceeds with whatever
// list comes back.
func Fetch(ctx context.Context, location string, fetch FetchFunc, transform Transform, logger *log.Logger) []ModuleReference {
	if fetch == nil {
		fetch = DefaultFetch
	}
	resp, err := fetch(ctx, location)
	if err != nil {
		logger.Error("manifest fetch failed", "manifest", location, "error", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("manifest request returned non-success status", "manifest", location, "status", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestBytes))
	if err != nil {
		logger.Error("reading manifest body failed", "manifest", location, "error", err)
		return nil
	}

	var refs []ModuleReference
	if err := json.Unmarshal(body, &refs); err != nil {
		logger.Error("manifest is not a valid module index", "manifest", location, "error", err)
		return nil
	}

	if transform != nil {
		refs = transform(refs)
	}
	return refs
}
