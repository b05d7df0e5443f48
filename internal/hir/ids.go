// Package hir holds the typed high-level representation the lint stage
// walks. Every expression carries a NodeID that keys the snapshot's
// per-node type-checking tables; the lint passes never compute types
// themselves, they look them up.
package hir

// NodeID identifies an expression node across the snapshot tables.
type NodeID uint32

// FuncID identifies a function within a module.
type FuncID uint32

// Invalid ID constants (zero is the sentinel).
const (
	NoNodeID NodeID = 0
	NoFuncID FuncID = 0
)

// IsValid returns true if the ID is valid (non-zero).
func (id NodeID) IsValid() bool { return id != NoNodeID }
func (id FuncID) IsValid() bool { return id != NoFuncID }
