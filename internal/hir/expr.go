package hir

import (
	"sable/internal/source"
	"sable/internal/symbols"
	"sable/internal/types"
)

// ExprKind enumerates HIR expression kinds.
type ExprKind uint8

const (
	// ExprLiteral represents literals (int, float, bool, string, nothing).
	ExprLiteral ExprKind = iota
	// ExprVarRef represents a variable reference.
	ExprVarRef
	// ExprUnaryOp represents unary operators (-, !, &, &mut, own).
	ExprUnaryOp
	// ExprBinaryOp represents binary operators (+, -, ==, etc.).
	ExprBinaryOp
	// ExprCall represents a free function call.
	ExprCall
	// ExprMethodCall represents receiver.method(args).
	ExprMethodCall
	// ExprFieldAccess represents field access (expr.field).
	ExprFieldAccess
	// ExprIndex represents indexing (expr[index]).
	ExprIndex
	// ExprIf represents a conditional expression.
	ExprIf
	// ExprCast represents a type cast (expr to Type).
	ExprCast
	// ExprBlock represents a block expression { ... }.
	ExprBlock
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprVarRef:
		return "VarRef"
	case ExprUnaryOp:
		return "UnaryOp"
	case ExprBinaryOp:
		return "BinaryOp"
	case ExprCall:
		return "Call"
	case ExprMethodCall:
		return "MethodCall"
	case ExprFieldAccess:
		return "FieldAccess"
	case ExprIndex:
		return "Index"
	case ExprIf:
		return "If"
	case ExprCast:
		return "Cast"
	case ExprBlock:
		return "Block"
	default:
		return "Unknown"
	}
}

// Expr represents an HIR expression with type information. ID keys the
// snapshot's per-node tables (expression types, call targets, type args).
type Expr struct {
	Kind ExprKind
	ID   NodeID
	Type types.TypeID // declared type, filled from the snapshot
	Span source.Span
	Data ExprData // kind-specific payload
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralFloat
	LiteralBool
	LiteralString
	LiteralNothing
)

// LiteralData holds data for ExprLiteral.
type LiteralData struct {
	Kind LiteralKind
	Text string // raw literal text
}

// VarRefData holds data for ExprVarRef.
type VarRefData struct {
	Name   string
	Symbol symbols.SymbolID
}

// UnaryOpData holds data for ExprUnaryOp.
type UnaryOpData struct {
	Op      string
	Operand *Expr
}

// BinaryOpData holds data for ExprBinaryOp.
type BinaryOpData struct {
	Op    string
	Left  *Expr
	Right *Expr
}

// CallData holds data for ExprCall.
type CallData struct {
	Callee string
	Symbol symbols.SymbolID
	Args   []*Expr
}

// MethodCallData holds data for ExprMethodCall: the method's own source
// token, the receiver expression and the argument list. This triple is
// everything a pass can learn about a call without type information.
type MethodCallData struct {
	Method     string
	MethodSpan source.Span
	Receiver   *Expr
	Args       []*Expr
}

// FieldAccessData holds data for ExprFieldAccess.
type FieldAccessData struct {
	Field  string
	Object *Expr
}

// IndexData holds data for ExprIndex.
type IndexData struct {
	Object *Expr
	Index  *Expr
}

// IfData holds data for ExprIf.
type IfData struct {
	Cond *Expr
	Then *Expr
	Else *Expr // nil when absent
}

// CastData holds data for ExprCast.
type CastData struct {
	Operand *Expr
	Target  types.TypeID
}

// BlockData holds data for ExprBlock. The block's value is its trailing
// expression, when present.
type BlockData struct {
	Block *Block
}

func (LiteralData) exprData()     {}
func (VarRefData) exprData()      {}
func (UnaryOpData) exprData()     {}
func (BinaryOpData) exprData()    {}
func (CallData) exprData()        {}
func (MethodCallData) exprData()  {}
func (FieldAccessData) exprData() {}
func (IndexData) exprData()       {}
func (IfData) exprData()          {}
func (CastData) exprData()        {}
func (BlockData) exprData()       {}
