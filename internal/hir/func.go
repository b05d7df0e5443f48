package hir

import (
	"sable/internal/source"
	"sable/internal/symbols"
	"sable/internal/types"
)

// FuncFlags represents function modifiers as a bitmask.
type FuncFlags uint32

const (
	// FuncPublic indicates a public function.
	FuncPublic FuncFlags = 1 << iota
	// FuncGeneric indicates the function declares type parameters.
	FuncGeneric
)

// HasFlag returns true if the given flag is set.
func (f FuncFlags) HasFlag(flag FuncFlags) bool {
	return f&flag != 0
}

// Attr is a source-level attribute on a function, e.g.
// @allow("noop_method_call"). Lint suppression reads these.
type Attr struct {
	Name string
	Args []string
	Span source.Span
}

// Param represents a function parameter.
type Param struct {
	Name   string
	Symbol symbols.SymbolID
	Type   types.TypeID
	Span   source.Span
}

// Func represents a typed HIR function.
type Func struct {
	Name       string
	Symbol     symbols.SymbolID
	Flags      FuncFlags
	Attrs      []Attr
	TypeParams []types.TypeID // generic parameter TypeIDs, declaration order
	Params     []Param
	Result     types.TypeID
	Body       *Block // nil for declarations without bodies
	Span       source.Span
}

// AllowsLint reports whether the function carries @allow for the lint name.
func (f *Func) AllowsLint(name string) bool {
	for _, attr := range f.Attrs {
		if attr.Name != "allow" {
			continue
		}
		for _, arg := range attr.Args {
			if arg == name {
				return true
			}
		}
	}
	return false
}
