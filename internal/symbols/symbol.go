package symbols

import (
	"sable/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolModule
	SymbolFunction
	SymbolType
	SymbolContract
	SymbolContractMethod
	SymbolImpl
	SymbolImplMethod
	SymbolParam
	SymbolLet
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolModule:
		return "module"
	case SymbolFunction:
		return "function"
	case SymbolType:
		return "type"
	case SymbolContract:
		return "contract"
	case SymbolContractMethod:
		return "contract-method"
	case SymbolImpl:
		return "impl"
	case SymbolImplMethod:
		return "impl-method"
	case SymbolParam:
		return "param"
	case SymbolLet:
		return "let"
	default:
		return "invalid"
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	SymbolFlagPublic SymbolFlags = 1 << iota
	SymbolFlagBuiltin
	// SymbolFlagBlanket marks an impl provided for a whole family of types
	// (every &T, every own T) rather than one nominal type.
	SymbolFlagBlanket
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 3)
	if f&SymbolFlagPublic != 0 {
		labels = append(labels, "public")
	}
	if f&SymbolFlagBuiltin != 0 {
		labels = append(labels, "builtin")
	}
	if f&SymbolFlagBlanket != 0 {
		labels = append(labels, "blanket")
	}
	return labels
}

// Symbol describes a named entity the snapshot knows about. Owner links a
// member to its declaring container: a contract method to its contract, an
// impl method to its impl, an impl to the contract it implements.
type Symbol struct {
	Name       source.StringID
	Kind       SymbolKind
	Flags      SymbolFlags
	Span       source.Span
	Owner      SymbolID
	TypeParams uint32 // number of generic parameters declared by this symbol
}
