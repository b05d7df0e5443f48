package source

import (
	"slices"
)

// StringID identifies an interned string. Names and diagnostic tags are
// compared as StringIDs throughout the lint stage.
type StringID uint32

const NoStringID StringID = 0

type Interner struct {
	byID  []string // byID[0] = "" for NoStringID
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

// Intern returns the ID for s, inserting it on first sight.
func (in *Interner) Intern(s string) StringID {
	if id, ok := in.index[s]; ok {
		return id
	}

	// Own copy so the interner never pins a caller's buffer.
	cpy := string([]byte(s))
	id := StringID(len(in.byID))
	in.byID = append(in.byID, cpy)
	in.index[cpy] = id
	return id
}

// Find returns the ID for an already-interned string without inserting.
// Unlike Intern it never mutates, so it is safe on shared read-only data.
func (in *Interner) Find(s string) (StringID, bool) {
	id, ok := in.index[s]
	return id, ok
}

// Lookup returns the string for an ID, or ("", false) for an invalid ID.
func (in *Interner) Lookup(id StringID) (string, bool) {
	if !in.Has(id) {
		return "", false
	}
	return in.byID[id], true
}

// MustLookup returns the string for an ID and panics on an invalid ID.
func (in *Interner) MustLookup(id StringID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

func (in *Interner) Has(id StringID) bool {
	return int(id) < len(in.byID)
}

// Len counts interned strings, NoStringID included. Never below 1.
func (in *Interner) Len() int {
	return len(in.byID)
}

// Strings returns a copy of all interned strings indexed by ID.
func (in *Interner) Strings() []string {
	return slices.Clone(in.byID)
}

// Restore rebuilds an interner from a Strings dump. Used by the snapshot
// codec; ids[0] must be the empty string.
func Restore(ids []string) *Interner {
	if len(ids) == 0 || ids[0] != "" {
		in := NewInterner()
		for _, s := range ids {
			in.Intern(s)
		}
		return in
	}
	in := &Interner{
		byID:  slices.Clone(ids),
		index: make(map[string]StringID, len(ids)),
	}
	for i, s := range in.byID {
		in.index[s] = StringID(i)
	}
	return in
}
