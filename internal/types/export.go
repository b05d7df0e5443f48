package types

import (
	"slices"

	"sable/internal/source"
)

// Dump is the flat, order-preserving image of an interner used by the
// snapshot codec. Slices are indexed exactly as the interner's internal
// tables, so TypeIDs and Payload slots survive a roundtrip unchanged.
type Dump struct {
	Types   []Type
	Structs []StructInfo
	Aliases []AliasInfo
	Params  []TypeParamInfo
}

// Export captures the interner state for serialization.
func (in *Interner) Export() Dump {
	return Dump{
		Types:   slices.Clone(in.types),
		Structs: slices.Clone(in.structs),
		Aliases: slices.Clone(in.aliases),
		Params:  slices.Clone(in.params),
	}
}

// Import rebuilds an interner from a Dump. The string interner is supplied
// separately because the snapshot shares one across all its tables.
func Import(d Dump, strings *source.Interner) *Interner {
	in := NewInterner(strings)
	if len(d.Types) <= in.Len() {
		return in
	}
	// The fresh interner pre-seeded builtins at the same IDs the dump
	// starts with; append the rest.
	if len(d.Structs) > 0 {
		in.structs = slices.Clone(d.Structs)
	}
	if len(d.Aliases) > 0 {
		in.aliases = slices.Clone(d.Aliases)
	}
	if len(d.Params) > 0 {
		in.params = slices.Clone(d.Params)
	}
	for _, tt := range d.Types[in.Len():] {
		in.internRaw(tt)
	}
	return in
}
