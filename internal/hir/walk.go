package hir

// Visitor observes one expression node. Returning false prunes the
// subtree below the node.
type Visitor func(*Expr) bool

// WalkFunc visits every expression in the function body in preorder.
func WalkFunc(fn *Func, visit Visitor) {
	if fn == nil || fn.Body == nil {
		return
	}
	walkBlock(fn.Body, visit)
}

// WalkExpr visits e and its sub-expressions in preorder.
func WalkExpr(e *Expr, visit Visitor) {
	if e == nil {
		return
	}
	if !visit(e) {
		return
	}
	switch data := e.Data.(type) {
	case UnaryOpData:
		WalkExpr(data.Operand, visit)
	case BinaryOpData:
		WalkExpr(data.Left, visit)
		WalkExpr(data.Right, visit)
	case CallData:
		for _, arg := range data.Args {
			WalkExpr(arg, visit)
		}
	case MethodCallData:
		WalkExpr(data.Receiver, visit)
		for _, arg := range data.Args {
			WalkExpr(arg, visit)
		}
	case FieldAccessData:
		WalkExpr(data.Object, visit)
	case IndexData:
		WalkExpr(data.Object, visit)
		WalkExpr(data.Index, visit)
	case IfData:
		WalkExpr(data.Cond, visit)
		WalkExpr(data.Then, visit)
		WalkExpr(data.Else, visit)
	case CastData:
		WalkExpr(data.Operand, visit)
	case BlockData:
		walkBlock(data.Block, visit)
	}
}

func walkBlock(b *Block, visit Visitor) {
	if b == nil {
		return
	}
	for i := range b.Stmts {
		walkStmt(&b.Stmts[i], visit)
	}
	WalkExpr(b.Value, visit)
}

func walkStmt(st *Stmt, visit Visitor) {
	switch data := st.Data.(type) {
	case LetData:
		WalkExpr(data.Value, visit)
	case ExprStmtData:
		WalkExpr(data.Expr, visit)
	case AssignData:
		WalkExpr(data.Target, visit)
		WalkExpr(data.Value, visit)
	case ReturnData:
		WalkExpr(data.Value, visit)
	}
}
