// Package contentstore holds the materialized article set consumed by the
// static renderer. The whole set is replaced at once: a new snapshot is built
// off to the side and swapped in with a single pointer store.
package contentstore

import (
	"sort"
	"sync/atomic"

	"contentgw/internal/model"
)

// Rendered is the pre-rendered form of an entry body.
type Rendered struct {
	HTML string `json:"html"`
}

// Entry is one materialized article, keyed by slug.
type Entry struct {
	ID       string         `json:"id"`
	Data     model.PostData `json:"data"`
	Body     string         `json:"body"`
	Rendered Rendered       `json:"rendered"`
}

type snapshot struct {
	order   []string
	entries map[string]Entry
}

// Store is safe for concurrent readers while a writer replaces its contents.
type Store struct {
	current atomic.Pointer[snapshot]
}

// New returns an empty store.
func New() *Store {
	s := &Store{}
	s.current.Store(&snapshot{entries: map[string]Entry{}})
	return s
}

// Replace discards every prior entry and installs entries. Later duplicates
// of an ID win, keeping the position of the first occurrence.
func (s *Store) Replace(entries []Entry) {
	next := &snapshot{
		order:   make([]string, 0, len(entries)),
		entries: make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		if _, dup := next.entries[e.ID]; !dup {
			next.order = append(next.order, e.ID)
		}
		next.entries[e.ID] = e
	}
	s.current.Store(next)
}

// Get returns the entry for id.
func (s *Store) Get(id string) (Entry, bool) {
	e, ok := s.current.Load().entries[id]
	return e, ok
}

// Entries returns a copy of all entries in insertion order.
func (s *Store) Entries() []Entry {
	snap := s.current.Load()
	out := make([]Entry, 0, len(snap.order))
	for _, id := range snap.order {
		out = append(out, snap.entries[id])
	}
	return out
}

// Sorted returns all entries newest first, the order the renderer lists them in.
func (s *Store) Sorted() []Entry {
	out := s.Entries()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Data.PubDate.After(out[j].Data.PubDate)
	})
	return out
}

// Len reports the number of entries.
func (s *Store) Len() int {
	return len(s.current.Load().order)
}
