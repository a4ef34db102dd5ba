// Package lookup resolves named entries against a table with a built-in
// default, filling every unset field of the chosen entry from the default.
package lookup

import (
	"sort"
	"strings"
)

// Entry is a table value that can fill its own empty fields from a default.
type Entry[T any] interface {
	Fallback(def T) T
}

// Table is an immutable set of named entries. It is safe for concurrent use
// once built.
type Table[T Entry[T]] struct {
	entries    map[string]T
	defaultKey string
	normalize  func(string) string
}

type Option[T Entry[T]] func(*Table[T])

// WithNormalizer replaces the default key normalizer. The normalizer is applied
// both when the table is built and on every lookup.
func WithNormalizer[T Entry[T]](fn func(string) string) Option[T] {
	return func(t *Table[T]) {
		t.normalize = fn
	}
}

// New builds a table. defaultKey must name an entry in entries.
func New[T Entry[T]](entries map[string]T, defaultKey string, opts ...Option[T]) Table[T] {
	t := Table[T]{normalize: NormalizeKey}
	for _, opt := range opts {
		opt(&t)
	}

	t.entries = make(map[string]T, len(entries))
	for k, v := range entries {
		t.entries[t.normalize(k)] = v
	}
	t.defaultKey = t.normalize(defaultKey)
	return t
}

// NormalizeKey lower-cases the key, trims it and treats '_' and '-' alike.
func NormalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "_", "-")
}

// Lookup returns the raw entry for key without applying any fallback.
func (t Table[T]) Lookup(key string) (T, bool) {
	v, ok := t.entries[t.normalize(key)]
	return v, ok
}

// Default returns the built-in default entry.
func (t Table[T]) Default() T {
	return t.entries[t.defaultKey]
}

// DefaultKey returns the normalized key of the default entry.
func (t Table[T]) DefaultKey() string {
	return t.defaultKey
}

// Resolve returns the entry for key with every empty field taken from the
// default entry. Unknown keys resolve to the default entry itself.
func (t Table[T]) Resolve(key string) T {
	def := t.Default()
	v, ok := t.Lookup(key)
	if !ok {
		v = def
	}
	return v.Fallback(def)
}

// Keys returns all normalized keys in sorted order.
func (t Table[T]) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (t Table[T]) Len() int {
	return len(t.entries)
}
