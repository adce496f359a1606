package i18n

import (
	"sort"
	"strings"
)

// metaPrefix marks reserved metadata keys that are ignored when deciding
// whether a locale tree already embeds its namespace.
const metaPrefix = "__"

// MergeLocales merges a module's locale declaration (language tag -> nested
// message tree) into the store. A per-language value that is not a map is
// treated as empty. Languages merge in sorted order so diagnostics are
// deterministic.
func MergeLocales(store Store, namespace string, locales map[string]any) {
	langs := make([]string, 0, len(locales))
	for lang := range locales {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		tree, _ := locales[lang].(map[string]any)
		Merge(store, lang, namespace, tree)
	}
}

// Merge folds one language's message tree into the store under namespace.
// An empty namespace merges at the root of the language's messages.
//
// The merge is non-destructive: keys already in the store that the new tree
// does not mention survive, colliding keys are overwritten, and maps on
// both sides merge recursively. Dotted compound keys ("a.b.c") expand into
// the equivalent nested structure before merging. A tree whose only
// substantive top-level key equals the namespace is unwrapped one level,
// so locale files authored with the namespace already embedded do not end
// up nested twice.
func Merge(store Store, lang, namespace string, tree map[string]any) {
	if tree == nil {
		tree = map[string]any{}
	}
	if namespace != "" {
		tree = unwrapNamespace(tree, namespace)
	}
	expanded := expandKeys(tree)

	messages := store.Messages(lang)
	if messages == nil {
		messages = map[string]any{}
	}
	if namespace == "" {
		messages = deepMerge(messages, expanded)
	} else {
		existing, _ := messages[namespace].(map[string]any)
		if existing == nil {
			existing = map[string]any{}
		}
		messages[namespace] = deepMerge(existing, expanded)
	}
	store.SetMessages(lang, messages)
}

// unwrapNamespace removes one level of nesting when the tree's sole
// substantive key (ignoring metaPrefix keys) equals the namespace.
func unwrapNamespace(tree map[string]any, namespace string) map[string]any {
	var sole string
	count := 0
	for k := range tree {
		if strings.HasPrefix(k, metaPrefix) {
			continue
		}
		sole = k
		count++
	}
	if count != 1 || sole != namespace {
		return tree
	}
	inner, ok := tree[sole].(map[string]any)
	if !ok {
		return tree
	}
	return inner
}

// expandKeys returns a copy of in with every dotted key expanded into
// nested maps. Expansion recurses into map values; slices are terminal
// values and are never expanded into.
func expandKeys(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if mv, ok := v.(map[string]any); ok {
			v = expandKeys(mv)
		}
		if !strings.Contains(k, ".") {
			if prev, ok := out[k].(map[string]any); ok {
				if next, ok := v.(map[string]any); ok {
					out[k] = deepMerge(prev, next)
					continue
				}
			}
			out[k] = v
			continue
		}
		parts := strings.Split(k, ".")
		node := out
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[part] = child
			}
			node = child
		}
		last := parts[len(parts)-1]
		if prev, ok := node[last].(map[string]any); ok {
			if next, ok := v.(map[string]any); ok {
				node[last] = deepMerge(prev, next)
				continue
			}
		}
		node[last] = v
	}
	return out
}

// deepMerge merges src into dst and returns dst. Keys only in dst survive;
// colliding keys take src's value unless both sides are maps, in which
// case they merge recursively.
func deepMerge(dst, src map[string]any) map[string]any {
	for k, v := range src {
		if dv, ok := dst[k].(map[string]any); ok {
			if sv, ok := v.(map[string]any); ok {
				dst[k] = deepMerge(dv, sv)
				continue
			}
		}
		dst[k] = v
	}
	return dst
}
