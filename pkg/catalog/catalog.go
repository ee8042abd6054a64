// Package catalog holds the curated set of searchable reaction items.
//
// The catalog is loaded once at startup and read-only afterward, so it is
// shared across concurrent inline queries without locking.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Entry is one reaction item. Immutable after load.
type Entry struct {
	Title    string `json:"title"`
	Keywords string `json:"keywords"`
	Slug     string `json:"slug"`
	By       string `json:"by"`
}

// Catalog is a static list of entries with a fuzzy matcher over
// title, keywords and slug.
type Catalog struct {
	entries []Entry
	// haystack[i] is the lowercased concatenation of the searchable
	// fields of entries[i], built once at load time.
	haystack []string
}

// New builds a catalog from the given entries, preserving insertion order.
func New(entries []Entry) *Catalog {
	c := &Catalog{
		entries:  make([]Entry, len(entries)),
		haystack: make([]string, len(entries)),
	}
	copy(c.entries, entries)
	for i, e := range entries {
		c.haystack[i] = strings.ToLower(e.Title + " " + e.Keywords + " " + e.Slug)
	}
	return c
}

// Load reads a JSON entry list from path. An empty path yields the built-in
// default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return New(defaultEntries), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(entries), nil
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns a copy of the entry list in insertion order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// BySlug returns the entry with the given slug.
func (c *Catalog) BySlug(slug string) (Entry, bool) {
	for _, e := range c.entries {
		if e.Slug == slug {
			return e, true
		}
	}
	return Entry{}, false
}

// Search fuzzy-matches query against title, keywords and slug,
// case-insensitively. Results come back best match first; ties keep catalog
// insertion order (the matcher is stable for equal scores). An empty query
// returns nothing rather than the whole catalog.
func (c *Catalog) Search(query string) []Entry {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, source(c.haystack))
	results := make([]Entry, 0, len(matches))
	for _, m := range matches {
		results = append(results, c.entries[m.Index])
	}
	return results
}

// source adapts the haystack to the fuzzy matcher's input interface.
type source []string

func (s source) String(i int) string { return s[i] }
func (s source) Len() int            { return len(s) }

// defaultEntries is the built-in reaction set used when no catalog file is
// configured.
var defaultEntries = []Entry{
	{Title: "Grug Smash", Keywords: "angry caveman club", Slug: "grug-smash", By: "grug"},
	{Title: "Baby Crying", Keywords: "sad tears wail", Slug: "baby-crying", By: "stream"},
	{Title: "Funny Cats", Keywords: "cat meow lol", Slug: "funny-cats", By: "stream"},
	{Title: "Dancing Dogs", Keywords: "dog dance party", Slug: "dancing-dogs", By: "stream"},
	{Title: "Air Horn", Keywords: "hype loud horn", Slug: "air-horn", By: "stream"},
	{Title: "Slow Clap", Keywords: "sarcasm applause clap", Slug: "slow-clap", By: "stream"},
}
