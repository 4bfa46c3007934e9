// Package cache persists translated fragments between runs as a flat JSON
// object mapping original fragment text to translated text. One cache file
// belongs to exactly one (input file, target language) pair; its path is
// derived by the caller. Entries never expire and are never evicted.
package cache

import (
	"encoding/json"
	"os"
)

// Cache is the in-memory fragment mapping for a single run. It is built
// once, handed through the pipeline by reference, and flushed by the
// pipeline; it schedules nothing itself. Lookups are exact: keys are case-
// and whitespace-sensitive.
type Cache struct {
	entries map[string]string
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Load reads the cache file at path. A missing, unreadable, or malformed
// file yields an empty cache; corruption is tolerated, never fatal, and the
// corrupt file is left on disk until the next Flush overwrites it.
func Load(path string) *Cache {
	c := New()

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		return c
	}

	c.entries = entries
	return c
}

// Get returns the translation stored for key, if any.
func (c *Cache) Get(key string) (string, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Put stores value under key, overwriting any previous entry.
func (c *Cache) Put(key, value string) {
	c.entries[key] = value
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the mapping.
func (c *Cache) Entries() map[string]string {
	out := make(map[string]string, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// Flush serializes the full mapping to path. It writes to a temporary file
// in the same directory and renames it into place, so a reader observes
// either the previous cache file or the complete new one, never a partial
// write.
func (c *Cache) Flush(path string) error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
