package entity

import (
	"fmt"
	"strings"

	errs "github.com/ledgertriage/ledgertriage/internal/domain/error"
)

// Tag labels operations
type Tag struct {
	ID    uint64
	Name  string // Unique, required
	Color string // Display attribute, opaque to the core
}

// Validate trims the name and checks it is present
func (t *Tag) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", errs.ErrInvalidTag)
	}
	return nil
}

// TagSet is an unordered set of tag ids
type TagSet map[uint64]struct{}

// Add inserts id into the set
func (s TagSet) Add(id uint64) {
	s[id] = struct{}{}
}

// Has reports whether id is in the set
func (s TagSet) Has(id uint64) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order
func (s TagSet) Sorted() []uint64 {
	ids := make([]uint64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return NormalizeTagIDs(ids)
}

// Without returns the ids of s that are not in ids
func (s TagSet) Without(ids []uint64) TagSet {
	out := make(TagSet, len(s))
	for id := range s {
		out.Add(id)
	}
	for _, id := range ids {
		delete(out, id)
	}
	return out
}
