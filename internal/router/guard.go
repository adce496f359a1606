package router

import "strings"

// DedupPolicy governs whether a candidate route that collides with an
// already-registered route is admitted or skipped.
type DedupPolicy string

const (
	// DedupByName skips a named candidate whose name is already
	// registered; unnamed candidates fall back to path comparison.
	// This is the default policy.
	DedupByName DedupPolicy = "name"

	// DedupByPath skips any candidate whose path equals an existing
	// route's path, regardless of name.
	DedupByPath DedupPolicy = "path"

	// DedupOff always admits.
	DedupOff DedupPolicy = "off"
)

// ParseDedupPolicy parses a policy string, defaulting to DedupByName for
// empty or unknown input.
func ParseDedupPolicy(s string) DedupPolicy {
	switch DedupPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case DedupByPath:
		return DedupByPath
	case DedupOff, "false", "disabled":
		return DedupOff
	default:
		return DedupByName
	}
}

// ShouldAdmit reports whether candidate may be registered on r under the
// given policy. Only top-level candidates are guarded; children register
// with their parent and are never inspected independently.
func ShouldAdmit(r Router, candidate Route, policy DedupPolicy) bool {
	switch policy {
	case DedupOff:
		return true
	case DedupByPath:
		return !hasPath(r, candidate.Path)
	default:
		if candidate.Name != "" {
			return !r.HasRoute(candidate.Name)
		}
		return !hasPath(r, candidate.Path)
	}
}

// hasPath reports whether any registered top-level route has an identical
// path string.
func hasPath(r Router, path string) bool {
	for _, rt := range r.Routes() {
		if rt.Path == path {
			return true
		}
	}
	return false
}
