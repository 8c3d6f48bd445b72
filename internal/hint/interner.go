package hint

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

type NameID uint32

const NoNameID NameID = 0

// Interner maps qualified names to stable NameIDs. IDs are dense and never
// reused, which makes them cheap composite-cache keys.
type Interner struct {
	byID  []string
	index map[string]NameID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""}, // NoNameID maps to the empty string
		index: map[string]NameID{"": 0},
	}
}

// Intern inserts s and returns its ID, reusing the existing ID when present.
func (i *Interner) Intern(s string) NameID {
	if id, ok := i.index[s]; ok {
		return id
	}
	// Own copy, detached from whatever buffer s was sliced from.
	cpy := string([]byte(s))
	lenByID, err := safecast.Conv[uint32](len(i.byID))
	if err != nil {
		panic(fmt.Errorf("name interner overflow: %w", err))
	}
	id := NameID(lenByID)
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// Lookup returns the string for an ID and whether the ID is valid.
func (i *Interner) Lookup(id NameID) (string, bool) {
	if !i.Has(id) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup panics on an invalid ID.
func (i *Interner) MustLookup(id NameID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("hint: invalid name ID")
	}
	return s
}

// Has reports whether id is valid.
func (i *Interner) Has(id NameID) bool {
	return int(id) < len(i.byID)
}

// Len returns the number of interned strings, counting NoNameID.
func (i *Interner) Len() int {
	return len(i.byID)
}

// Snapshot returns a copy of every interned string.
func (i *Interner) Snapshot() []string {
	return slices.Clone(i.byID)
}
