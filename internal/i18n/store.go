// Package i18n defines the localization store contract consumed by the
// module loader and the namespace-aware merge that folds a module's
// localized messages into the host's store.
package i18n

import "sort"

// Store is the collaborator interface the loader needs from the host's
// localization layer. The store is long-lived and host-owned; the loader
// mutates it in place and never replaces it.
type Store interface {
	// Messages returns the message tree for a language tag, or nil if
	// the language has no messages yet.
	Messages(lang string) map[string]any

	// SetMessages replaces the message tree for a language tag.
	SetMessages(lang string, messages map[string]any)
}

// MemStore is an in-memory Store implementation used by the CLI's stand-in
// host and by tests.
type MemStore struct {
	messages map[string]map[string]any
}

// NewMemStore creates an empty message store.
func NewMemStore() *MemStore {
	return &MemStore{messages: make(map[string]map[string]any)}
}

// Messages returns the message tree for lang, or nil.
func (s *MemStore) Messages(lang string) map[string]any {
	return s.messages[lang]
}

// SetMessages replaces the message tree for lang.
func (s *MemStore) SetMessages(lang string, messages map[string]any) {
	s.messages[lang] = messages
}

// Languages returns the language tags with messages, sorted.
func (s *MemStore) Languages() []string {
	langs := make([]string, 0, len(s.messages))
	for lang := range s.messages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
