package hir

import (
	"sable/internal/source"
	"sable/internal/symbols"
	"sable/internal/types"
)

// StmtKind enumerates HIR statement kinds.
type StmtKind uint8

const (
	// StmtLet represents a let binding.
	StmtLet StmtKind = iota
	// StmtExpr represents an expression statement.
	StmtExpr
	// StmtAssign represents an assignment.
	StmtAssign
	// StmtReturn represents a return statement.
	StmtReturn
)

// Stmt represents an HIR statement.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// LetData holds data for StmtLet.
type LetData struct {
	Name   string
	Symbol symbols.SymbolID
	Type   types.TypeID
	Value  *Expr // nil for uninitialized bindings
}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

// AssignData holds data for StmtAssign.
type AssignData struct {
	Target *Expr
	Value  *Expr
}

// ReturnData holds data for StmtReturn.
type ReturnData struct {
	Value *Expr // nil for bare returns
}

func (LetData) stmtData()      {}
func (ExprStmtData) stmtData() {}
func (AssignData) stmtData()   {}
func (ReturnData) stmtData()   {}

// Block is a sequence of statements with an optional trailing value
// expression.
type Block struct {
	Stmts []Stmt
	Value *Expr // nil when the block has unit value
	Span  source.Span
}
