// Package seen tracks posting ids that were already evaluated in a prior
// cycle so the pipeline never alerts twice for the same listing.
package seen

import (
	"context"
	"sort"
)

// Set is a collection of posting ids. Within a run it only grows: the
// pipeline computes a superset and hands it back for a single save.
type Set map[string]struct{}

// NewSet builds a set from the provided ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s Set) Add(id string) {
	if id == "" {
		return
	}
	s[id] = struct{}{}
}

func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Union returns a new set containing the ids of both sets. Neither input
// is modified.
func (s Set) Union(other Set) Set {
	merged := make(Set, len(s)+len(other))
	for id := range s {
		merged[id] = struct{}{}
	}
	for id := range other {
		merged[id] = struct{}{}
	}
	return merged
}

// IDs returns the ids in sorted order for stable serialization.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Store persists the seen set between cycles.
//
// Load never fails the cycle: absent, empty, or corrupt state degrades to
// an empty set, which over-notifies rather than losing postings. Save
// replaces the full stored contents and must survive a crash mid-write.
type Store interface {
	Load(ctx context.Context) (Set, error)
	Save(ctx context.Context, s Set) error
	Reset(ctx context.Context) error
}
