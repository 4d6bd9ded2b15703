package text

import (
	"sort"
	"strings"
	"sync"
)

// Entry is one stored (locale, key, value) triple.
type Entry struct {
	Locale string
	Key    string
	Value  string
}

// Catalog is an editable in-memory provider. Locales are normalised on write
// and lookups fall back through LocaleCandidates. Safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]map[string]string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]map[string]string)}
}

// Set stores value for key in locale.
func (c *Catalog) Set(locale, key, value string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	locale = NormalizeLocale(locale)

	c.mu.Lock()
	defer c.mu.Unlock()
	table, ok := c.entries[locale]
	if !ok {
		table = make(map[string]string)
		c.entries[locale] = table
	}
	table[key] = value
}

// SetAll stores every entry of values under locale.
func (c *Catalog) SetAll(locale string, values map[string]string) {
	for key, value := range values {
		c.Set(locale, key, value)
	}
}

// Put stores an entry.
func (c *Catalog) Put(entry Entry) {
	c.Set(entry.Locale, entry.Key, entry.Value)
}

// Delete removes key from locale.
func (c *Catalog) Delete(locale, key string) {
	locale = NormalizeLocale(locale)
	c.mu.Lock()
	defer c.mu.Unlock()
	if table, ok := c.entries[locale]; ok {
		delete(table, strings.TrimSpace(key))
		if len(table) == 0 {
			delete(c.entries, locale)
		}
	}
}

// Lookup returns the value stored for key in exactly locale.
func (c *Catalog) Lookup(locale, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[NormalizeLocale(locale)][key]
	return value, ok
}

// Text implements Provider with locale fallback.
func (c *Catalog) Text(locale, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, candidate := range LocaleCandidates(locale) {
		if value, ok := c.entries[candidate][key]; ok {
			return value, true
		}
	}
	return "", false
}

// Locales returns the stored locales sorted; the root locale is "".
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.entries))
	for locale := range c.entries {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Keys returns the keys stored for exactly locale, sorted.
func (c *Catalog) Keys(locale string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	table := c.entries[NormalizeLocale(locale)]
	out := make([]string, 0, len(table))
	for key := range table {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Entries returns a copy of the table for exactly locale.
func (c *Catalog) Entries(locale string) map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	table := c.entries[NormalizeLocale(locale)]
	out := make(map[string]string, len(table))
	for key, value := range table {
		out[key] = value
	}
	return out
}

// All returns every entry ordered by locale then key.
func (c *Catalog) All() []Entry {
	var out []Entry
	for _, locale := range c.Locales() {
		for _, key := range c.Keys(locale) {
			value, _ := c.Lookup(locale, key)
			out = append(out, Entry{Locale: locale, Key: key, Value: value})
		}
	}
	return out
}

// Missing lists keys present in reference but absent from locale (exact
// match, no fallback), sorted.
func (c *Catalog) Missing(locale, reference string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	target := c.entries[NormalizeLocale(locale)]
	var out []string
	for key := range c.entries[NormalizeLocale(reference)] {
		if _, ok := target[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}
