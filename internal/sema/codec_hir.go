package sema

import (
	"fmt"

	"sable/internal/hir"
	"sable/internal/symbols"
	"sable/internal/types"
)

func flattenFunc(fn *hir.Func) wireFunc {
	wf := wireFunc{
		Name:   fn.Name,
		Symbol: uint32(fn.Symbol),
		Flags:  uint32(fn.Flags),
		Result: uint32(fn.Result),
		Span:   fn.Span,
		Body:   flattenBlock(fn.Body),
	}
	for _, attr := range fn.Attrs {
		wf.Attrs = append(wf.Attrs, wireAttr{Name: attr.Name, Args: attr.Args, Span: attr.Span})
	}
	wf.TypeParams = typeIDsToWire(fn.TypeParams)
	for _, p := range fn.Params {
		wf.Params = append(wf.Params, wireParam{
			Name:   p.Name,
			Symbol: uint32(p.Symbol),
			Type:   uint32(p.Type),
			Span:   p.Span,
		})
	}
	return wf
}

func rebuildFunc(wf *wireFunc) (*hir.Func, error) {
	body, err := rebuildBlock(wf.Body)
	if err != nil {
		return nil, err
	}
	fn := &hir.Func{
		Name:       wf.Name,
		Symbol:     symbols.SymbolID(wf.Symbol),
		Flags:      hir.FuncFlags(wf.Flags),
		TypeParams: typeIDsFromWire(wf.TypeParams),
		Result:     types.TypeID(wf.Result),
		Span:       wf.Span,
		Body:       body,
	}
	for _, attr := range wf.Attrs {
		fn.Attrs = append(fn.Attrs, hir.Attr{Name: attr.Name, Args: attr.Args, Span: attr.Span})
	}
	for _, p := range wf.Params {
		fn.Params = append(fn.Params, hir.Param{
			Name:   p.Name,
			Symbol: symbols.SymbolID(p.Symbol),
			Type:   types.TypeID(p.Type),
			Span:   p.Span,
		})
	}
	return fn, nil
}

func flattenBlock(b *hir.Block) *wireBlock {
	if b == nil {
		return nil
	}
	wb := &wireBlock{Span: b.Span, Value: flattenExpr(b.Value)}
	for i := range b.Stmts {
		wb.Stmts = append(wb.Stmts, flattenStmt(&b.Stmts[i]))
	}
	return wb
}

func rebuildBlock(wb *wireBlock) (*hir.Block, error) {
	if wb == nil {
		return nil, nil
	}
	value, err := rebuildExpr(wb.Value)
	if err != nil {
		return nil, err
	}
	b := &hir.Block{Span: wb.Span, Value: value}
	for i := range wb.Stmts {
		st, err := rebuildStmt(&wb.Stmts[i])
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, st)
	}
	return b, nil
}

func flattenStmt(st *hir.Stmt) wireStmt {
	ws := wireStmt{Kind: uint8(st.Kind), Span: st.Span}
	switch data := st.Data.(type) {
	case hir.LetData:
		ws.Name = data.Name
		ws.Symbol = uint32(data.Symbol)
		ws.Type = uint32(data.Type)
		ws.A = flattenExpr(data.Value)
	case hir.ExprStmtData:
		ws.A = flattenExpr(data.Expr)
	case hir.AssignData:
		ws.A = flattenExpr(data.Target)
		ws.B = flattenExpr(data.Value)
	case hir.ReturnData:
		ws.A = flattenExpr(data.Value)
	}
	return ws
}

func rebuildStmt(ws *wireStmt) (hir.Stmt, error) {
	a, err := rebuildExpr(ws.A)
	if err != nil {
		return hir.Stmt{}, err
	}
	b, err := rebuildExpr(ws.B)
	if err != nil {
		return hir.Stmt{}, err
	}
	st := hir.Stmt{Kind: hir.StmtKind(ws.Kind), Span: ws.Span}
	switch st.Kind {
	case hir.StmtLet:
		st.Data = hir.LetData{
			Name:   ws.Name,
			Symbol: symbols.SymbolID(ws.Symbol),
			Type:   types.TypeID(ws.Type),
			Value:  a,
		}
	case hir.StmtExpr:
		st.Data = hir.ExprStmtData{Expr: a}
	case hir.StmtAssign:
		st.Data = hir.AssignData{Target: a, Value: b}
	case hir.StmtReturn:
		st.Data = hir.ReturnData{Value: a}
	default:
		return hir.Stmt{}, fmt.Errorf("snapshot: unknown statement kind %d", ws.Kind)
	}
	return st, nil
}

func flattenExpr(e *hir.Expr) *wireExpr {
	if e == nil {
		return nil
	}
	we := &wireExpr{
		Kind: uint8(e.Kind),
		ID:   uint32(e.ID),
		Type: uint32(e.Type),
		Span: e.Span,
	}
	switch data := e.Data.(type) {
	case hir.LiteralData:
		we.LitKind = uint8(data.Kind)
		we.Text = data.Text
	case hir.VarRefData:
		we.Text = data.Name
		we.Symbol = uint32(data.Symbol)
	case hir.UnaryOpData:
		we.Text = data.Op
		we.Kids = []*wireExpr{flattenExpr(data.Operand)}
	case hir.BinaryOpData:
		we.Text = data.Op
		we.Kids = []*wireExpr{flattenExpr(data.Left), flattenExpr(data.Right)}
	case hir.CallData:
		we.Text = data.Callee
		we.Symbol = uint32(data.Symbol)
		for _, arg := range data.Args {
			we.Kids = append(we.Kids, flattenExpr(arg))
		}
	case hir.MethodCallData:
		we.Text = data.Method
		we.MethodSpan = data.MethodSpan
		we.Kids = append(we.Kids, flattenExpr(data.Receiver))
		for _, arg := range data.Args {
			we.Kids = append(we.Kids, flattenExpr(arg))
		}
	case hir.FieldAccessData:
		we.Text = data.Field
		we.Kids = []*wireExpr{flattenExpr(data.Object)}
	case hir.IndexData:
		we.Kids = []*wireExpr{flattenExpr(data.Object), flattenExpr(data.Index)}
	case hir.IfData:
		we.Kids = []*wireExpr{flattenExpr(data.Cond), flattenExpr(data.Then)}
		if data.Else != nil {
			we.HasElse = true
			we.Kids = append(we.Kids, flattenExpr(data.Else))
		}
	case hir.CastData:
		we.Target = uint32(data.Target)
		we.Kids = []*wireExpr{flattenExpr(data.Operand)}
	case hir.BlockData:
		we.Block = flattenBlock(data.Block)
	}
	return we
}

func rebuildExpr(we *wireExpr) (*hir.Expr, error) {
	if we == nil {
		return nil, nil
	}
	e := &hir.Expr{
		Kind: hir.ExprKind(we.Kind),
		ID:   hir.NodeID(we.ID),
		Type: types.TypeID(we.Type),
		Span: we.Span,
	}
	kids, err := rebuildExprs(we.Kids)
	if err != nil {
		return nil, err
	}
	switch e.Kind {
	case hir.ExprLiteral:
		e.Data = hir.LiteralData{Kind: hir.LiteralKind(we.LitKind), Text: we.Text}
	case hir.ExprVarRef:
		e.Data = hir.VarRefData{Name: we.Text, Symbol: symbols.SymbolID(we.Symbol)}
	case hir.ExprUnaryOp:
		if len(kids) != 1 {
			return nil, fmt.Errorf("snapshot: unary node %d has %d children", we.ID, len(kids))
		}
		e.Data = hir.UnaryOpData{Op: we.Text, Operand: kids[0]}
	case hir.ExprBinaryOp:
		if len(kids) != 2 {
			return nil, fmt.Errorf("snapshot: binary node %d has %d children", we.ID, len(kids))
		}
		e.Data = hir.BinaryOpData{Op: we.Text, Left: kids[0], Right: kids[1]}
	case hir.ExprCall:
		e.Data = hir.CallData{Callee: we.Text, Symbol: symbols.SymbolID(we.Symbol), Args: kids}
	case hir.ExprMethodCall:
		if len(kids) < 1 {
			return nil, fmt.Errorf("snapshot: method-call node %d has no receiver", we.ID)
		}
		e.Data = hir.MethodCallData{
			Method:     we.Text,
			MethodSpan: we.MethodSpan,
			Receiver:   kids[0],
			Args:       kids[1:],
		}
	case hir.ExprFieldAccess:
		if len(kids) != 1 {
			return nil, fmt.Errorf("snapshot: field-access node %d has %d children", we.ID, len(kids))
		}
		e.Data = hir.FieldAccessData{Field: we.Text, Object: kids[0]}
	case hir.ExprIndex:
		if len(kids) != 2 {
			return nil, fmt.Errorf("snapshot: index node %d has %d children", we.ID, len(kids))
		}
		e.Data = hir.IndexData{Object: kids[0], Index: kids[1]}
	case hir.ExprIf:
		want := 2
		if we.HasElse {
			want = 3
		}
		if len(kids) != want {
			return nil, fmt.Errorf("snapshot: if node %d has %d children, want %d", we.ID, len(kids), want)
		}
		data := hir.IfData{Cond: kids[0], Then: kids[1]}
		if we.HasElse {
			data.Else = kids[2]
		}
		e.Data = data
	case hir.ExprCast:
		if len(kids) != 1 {
			return nil, fmt.Errorf("snapshot: cast node %d has %d children", we.ID, len(kids))
		}
		e.Data = hir.CastData{Operand: kids[0], Target: types.TypeID(we.Target)}
	case hir.ExprBlock:
		block, err := rebuildBlock(we.Block)
		if err != nil {
			return nil, err
		}
		e.Data = hir.BlockData{Block: block}
	default:
		return nil, fmt.Errorf("snapshot: unknown expression kind %d", we.Kind)
	}
	return e, nil
}

func rebuildExprs(wes []*wireExpr) ([]*hir.Expr, error) {
	if len(wes) == 0 {
		return nil, nil
	}
	out := make([]*hir.Expr, len(wes))
	for i, we := range wes {
		e, err := rebuildExpr(we)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
