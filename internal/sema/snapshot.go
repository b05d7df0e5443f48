package sema

import (
	"sable/internal/hir"
	"sable/internal/source"
	"sable/internal/symbols"
	"sable/internal/types"
)

// Snapshot is one module's type-checking artifact as decoded from a .sbx
// file: the typed HIR, the interners that give its IDs meaning, and the
// per-node tables the type checker filled. Everything is read-only after
// decode; lint workers share one snapshot without synchronization.
type Snapshot struct {
	ModuleName string
	ModulePath string

	Files   *source.FileSet
	Strings *source.Interner
	Types   *types.Interner
	Symbols *symbols.Table
	Module  *hir.Module

	// ExprTypes records the declared type of every expression node.
	ExprTypes map[hir.NodeID]types.TypeID
	// ExprAdjusted records post-implicit-conversion types where the
	// context adjusted an expression. Absent entries mean "no adjustment".
	ExprAdjusted map[hir.NodeID]types.TypeID
	// CallTargets records, per method-call node, the contract member the
	// call targets and the environment it was selected under.
	CallTargets map[hir.NodeID]CallTarget
	// CallTypeArgs records the ordered type arguments bound at each call.
	CallTypeArgs map[hir.NodeID][]types.TypeID

	Instances *InstanceTable
}

// NewSnapshot creates an empty snapshot with all tables allocated. Used by
// the codec and by test builders.
func NewSnapshot(moduleName string) *Snapshot {
	strings := source.NewInterner()
	return &Snapshot{
		ModuleName:   moduleName,
		Files:        source.NewFileSet(),
		Strings:      strings,
		Types:        types.NewInterner(strings),
		Symbols:      symbols.NewTable(0),
		Module:       &hir.Module{Name: moduleName},
		ExprTypes:    make(map[hir.NodeID]types.TypeID),
		ExprAdjusted: make(map[hir.NodeID]types.TypeID),
		CallTargets:  make(map[hir.NodeID]CallTarget),
		CallTypeArgs: make(map[hir.NodeID][]types.TypeID),
		Instances:    NewInstanceTable(),
	}
}

// Snapshot implements Oracle.
var _ Oracle = (*Snapshot)(nil)

// ExprType returns the declared and adjusted type of an expression node.
func (s *Snapshot) ExprType(id hir.NodeID) (declared, adjusted types.TypeID) {
	declared = s.ExprTypes[id]
	adjusted = declared
	if adj, ok := s.ExprAdjusted[id]; ok {
		adjusted = adj
	}
	return declared, adjusted
}

// TargetMember returns the recorded call target for a method-call node.
func (s *Snapshot) TargetMember(id hir.NodeID) (CallTarget, bool) {
	target, ok := s.CallTargets[id]
	return target, ok
}

// NodeTypeArgs returns the type arguments bound to a call node. The
// returned slice is shared; callers must not mutate it.
func (s *Snapshot) NodeTypeArgs(id hir.NodeID) []types.TypeID {
	return s.CallTypeArgs[id]
}

// HasUnresolvedParams reports whether any argument still contains a
// generic parameter.
func (s *Snapshot) HasUnresolvedParams(args []types.TypeID) bool {
	return s.Types.HasUnresolvedParams(args)
}

// IsTagged reports whether the symbol carries the diagnostic tag. Tags
// that were never interned in this snapshot are attached to nothing.
func (s *Snapshot) IsTagged(sym symbols.SymbolID, tag string) bool {
	id, ok := s.Strings.Find(tag)
	if !ok {
		return false
	}
	return s.Symbols.IsTagged(sym, id)
}

// ResolveInstance looks up the single implementation for the member under
// the environment. Pure read against the snapshot's instance table.
func (s *Snapshot) ResolveInstance(member symbols.SymbolID, args []types.TypeID, env ParamEnv) (Instance, bool) {
	return s.Instances.Resolve(member, args, env)
}
