package sema

import (
	"sable/internal/hir"
	"sable/internal/symbols"
	"sable/internal/types"
)

// CallTarget identifies the declared target of a method call: the contract,
// the contract member, and the parameter environment the type checker
// selected the target under. The environment travels with the target
// because instance resolution is only meaningful relative to it.
type CallTarget struct {
	Contract symbols.SymbolID
	Member   symbols.SymbolID
	Env      ParamEnv
}

// Bound constrains one type to implement one contract.
type Bound struct {
	Param    types.TypeID
	Contract symbols.SymbolID
}

// ParamEnv is the ambient set of bounds under which instance resolution is
// evaluated. Supplied by the front-end, never computed here.
type ParamEnv struct {
	Bounds []Bound
}

// Instance identifies exactly one concrete method body selected for a
// contract member plus concrete type arguments.
type Instance struct {
	Impl     symbols.SymbolID
	TypeArgs []types.TypeID
}

// Oracle is the capability boundary between lint passes and the
// type-checking results. Passes depend only on this interface, so tests
// can drive them against a hand-built snapshot instead of a front-end.
type Oracle interface {
	// ExprType returns the declared type of an expression and its adjusted
	// (post-implicit-conversion) type. The adjusted type equals the
	// declared one when no adjustment applies.
	ExprType(id hir.NodeID) (declared, adjusted types.TypeID)

	// TargetMember returns the contract member a method call targets,
	// when the type checker recorded one.
	TargetMember(id hir.NodeID) (CallTarget, bool)

	// NodeTypeArgs returns the ordered type arguments bound to a call.
	NodeTypeArgs(id hir.NodeID) []types.TypeID

	// HasUnresolvedParams reports whether any type argument still contains
	// a generic parameter.
	HasUnresolvedParams(args []types.TypeID) bool

	// IsTagged reports whether the declaration carries the diagnostic tag.
	IsTagged(sym symbols.SymbolID, tag string) bool

	// ResolveInstance picks the single concrete implementation a fully
	// instantiated call would invoke, under the given environment. The
	// second result is false on failure or ambiguity; the caller must
	// treat that as "not applicable", never guess.
	ResolveInstance(member symbols.SymbolID, args []types.TypeID, env ParamEnv) (Instance, bool)
}
