package symbols

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"sable/internal/source"
)

// Table stores declared symbols in a compact slice-based arena, together
// with the diagnostic-tag registry. Tags identify declarations semantically
// (allow-lists, no-op catalogs) without depending on their textual names.
type Table struct {
	data []Symbol
	tags map[SymbolID][]source.StringID
}

// NewTable creates a symbol table with an optional capacity hint.
func NewTable(capacity uint32) *Table {
	if capacity == 0 {
		capacity = 64
	}
	return &Table{
		data: make([]Symbol, 1, capacity+1), // index 0 reserved for NoSymbolID
		tags: make(map[SymbolID][]source.StringID),
	}
}

// New allocates a symbol in the arena and returns its ID.
func (t *Table) New(sym Symbol) SymbolID {
	value, err := safecast.Conv[uint32](len(t.data))
	if err != nil {
		panic(fmt.Errorf("symbol arena overflow: %w", err))
	}
	id := SymbolID(value)
	t.data = append(t.data, sym)
	return id
}

// Get returns a symbol pointer or nil for an invalid ID.
func (t *Table) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(t.data) {
		return nil
	}
	return &t.data[id]
}

// Len reports the number of stored symbols excluding the sentinel.
func (t *Table) Len() int { return len(t.data) - 1 }

// Data exposes the arena storage without the sentinel.
func (t *Table) Data() []Symbol {
	if len(t.data) <= 1 {
		return nil
	}
	return t.data[1:]
}

// Tag attaches a diagnostic tag to a symbol. Attaching the same tag twice
// is a no-op.
func (t *Table) Tag(id SymbolID, tag source.StringID) {
	if !id.IsValid() || tag == source.NoStringID {
		return
	}
	if slices.Contains(t.tags[id], tag) {
		return
	}
	t.tags[id] = append(t.tags[id], tag)
}

// IsTagged reports whether the symbol carries the diagnostic tag.
func (t *Table) IsTagged(id SymbolID, tag source.StringID) bool {
	return slices.Contains(t.tags[id], tag)
}

// TagsOf returns the tags attached to a symbol, in attachment order.
func (t *Table) TagsOf(id SymbolID) []source.StringID {
	return slices.Clone(t.tags[id])
}

// TagDump is one (symbol, tag) pair in serialized form.
type TagDump struct {
	Symbol SymbolID
	Tag    source.StringID
}

// Export captures the table state for the snapshot codec.
func (t *Table) Export() ([]Symbol, []TagDump) {
	var tags []TagDump
	for id := SymbolID(1); int(id) < len(t.data); id++ {
		for _, tag := range t.tags[id] {
			tags = append(tags, TagDump{Symbol: id, Tag: tag})
		}
	}
	return slices.Clone(t.data[1:]), tags
}

// ImportTable rebuilds a table from exported data.
func ImportTable(syms []Symbol, tags []TagDump) *Table {
	n, err := safecast.Conv[uint32](len(syms))
	if err != nil {
		panic(fmt.Errorf("symbol count overflow: %w", err))
	}
	t := NewTable(n)
	for _, sym := range syms {
		t.New(sym)
	}
	for _, td := range tags {
		t.Tag(td.Symbol, td.Tag)
	}
	return t
}
