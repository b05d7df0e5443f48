// Package testkit builds hand-made semantic snapshots for tests. The
// builder plays the role of a tiny front-end: it allocates node IDs,
// fills the per-node tables and records instance resolutions, so lint
// passes can be driven without a real type checker.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"sable/internal/hir"
	"sable/internal/sema"
	"sable/internal/source"
	"sable/internal/symbols"
	"sable/internal/types"
)

// SnapshotBuilder accumulates snapshot state through fluent calls.
type SnapshotBuilder struct {
	snap   *sema.Snapshot
	nextID hir.NodeID
}

// NewSnapshot starts a builder for a module with the given name.
func NewSnapshot(moduleName string) *SnapshotBuilder {
	return &SnapshotBuilder{
		snap:   sema.NewSnapshot(moduleName),
		nextID: 1,
	}
}

// Snapshot returns the built snapshot.
func (b *SnapshotBuilder) Snapshot() *sema.Snapshot {
	return b.snap
}

// Types exposes the snapshot's type interner.
func (b *SnapshotBuilder) Types() *types.Interner {
	return b.snap.Types
}

// Symbols exposes the snapshot's symbol table.
func (b *SnapshotBuilder) Symbols() *symbols.Table {
	return b.snap.Symbols
}

// AddFile registers a virtual source file and returns its ID.
func (b *SnapshotBuilder) AddFile(path, content string) source.FileID {
	return b.snap.Files.AddVirtual(path, []byte(content))
}

// Intern interns a string (a name or a diagnostic tag).
func (b *SnapshotBuilder) Intern(s string) source.StringID {
	return b.snap.Strings.Intern(s)
}

// NodeID allocates a fresh node ID.
func (b *SnapshotBuilder) NodeID() hir.NodeID {
	id := b.nextID
	b.nextID++
	return id
}

// Contract declares a contract symbol carrying the given diagnostic tags.
func (b *SnapshotBuilder) Contract(name string, tags ...string) symbols.SymbolID {
	id := b.snap.Symbols.New(symbols.Symbol{
		Name: b.Intern(name),
		Kind: symbols.SymbolContract,
	})
	for _, tag := range tags {
		b.snap.Symbols.Tag(id, b.Intern(tag))
	}
	return id
}

// ContractMethod declares a method member owned by a contract.
func (b *SnapshotBuilder) ContractMethod(contract symbols.SymbolID, name string) symbols.SymbolID {
	return b.snap.Symbols.New(symbols.Symbol{
		Name:  b.Intern(name),
		Kind:  symbols.SymbolContractMethod,
		Owner: contract,
	})
}

// Impl declares an implementation of a contract; blanket marks family-wide
// impls (every &T).
func (b *SnapshotBuilder) Impl(contract symbols.SymbolID, name string, blanket bool, tags ...string) symbols.SymbolID {
	var flags symbols.SymbolFlags
	if blanket {
		flags |= symbols.SymbolFlagBlanket
	}
	impl := b.snap.Symbols.New(symbols.Symbol{
		Name:  b.Intern(name),
		Kind:  symbols.SymbolImpl,
		Owner: contract,
		Flags: flags,
	})
	for _, tag := range tags {
		b.snap.Symbols.Tag(impl, b.Intern(tag))
	}
	return impl
}

// ImplMethod declares the method body inside an impl and tags it.
func (b *SnapshotBuilder) ImplMethod(impl symbols.SymbolID, name string, tags ...string) symbols.SymbolID {
	id := b.snap.Symbols.New(symbols.Symbol{
		Name:  b.Intern(name),
		Kind:  symbols.SymbolImplMethod,
		Owner: impl,
	})
	for _, tag := range tags {
		b.snap.Symbols.Tag(id, b.Intern(tag))
	}
	return id
}

// SetExprType records the declared type for a node.
func (b *SnapshotBuilder) SetExprType(id hir.NodeID, ty types.TypeID) *SnapshotBuilder {
	b.snap.ExprTypes[id] = ty
	return b
}

// SetAdjustedType records a post-implicit-conversion type for a node.
func (b *SnapshotBuilder) SetAdjustedType(id hir.NodeID, ty types.TypeID) *SnapshotBuilder {
	b.snap.ExprAdjusted[id] = ty
	return b
}

// SetCallTarget records the contract member a call node targets.
func (b *SnapshotBuilder) SetCallTarget(id hir.NodeID, target sema.CallTarget) *SnapshotBuilder {
	b.snap.CallTargets[id] = target
	return b
}

// SetCallTypeArgs records the type arguments bound at a call node.
func (b *SnapshotBuilder) SetCallTypeArgs(id hir.NodeID, args ...types.TypeID) *SnapshotBuilder {
	b.snap.CallTypeArgs[id] = args
	return b
}

// ResolveTo records that (member, args, env) resolves to the given impl.
func (b *SnapshotBuilder) ResolveTo(member symbols.SymbolID, args []types.TypeID, env sema.ParamEnv, impl symbols.SymbolID) *SnapshotBuilder {
	b.snap.Instances.Put(member, args, env, sema.Instance{Impl: impl, TypeArgs: args})
	return b
}

// ResolveAmbiguous records that (member, args, env) has no single answer.
func (b *SnapshotBuilder) ResolveAmbiguous(member symbols.SymbolID, args []types.TypeID, env sema.ParamEnv) *SnapshotBuilder {
	b.snap.Instances.MarkAmbiguous(member, args, env)
	return b
}

// AddFunc appends a function to the snapshot's module.
func (b *SnapshotBuilder) AddFunc(fn *hir.Func) *SnapshotBuilder {
	b.snap.Module.Funcs = append(b.snap.Module.Funcs, fn)
	return b
}

// MethodCall builds a typed method-call expression over the receiver,
// registering node types along the way. The call's span covers the
// receiver and the method suffix; the receiver must carry its own span.
func (b *SnapshotBuilder) MethodCall(method string, recv *hir.Expr, callType types.TypeID, callSpan, methodSpan source.Span, args ...*hir.Expr) *hir.Expr {
	call := &hir.Expr{
		Kind: hir.ExprMethodCall,
		ID:   b.NodeID(),
		Type: callType,
		Span: callSpan,
		Data: hir.MethodCallData{
			Method:     method,
			MethodSpan: methodSpan,
			Receiver:   recv,
			Args:       args,
		},
	}
	b.SetExprType(call.ID, callType)
	return call
}

// VarRef builds a typed variable reference expression.
func (b *SnapshotBuilder) VarRef(name string, ty types.TypeID, span source.Span) *hir.Expr {
	e := &hir.Expr{
		Kind: hir.ExprVarRef,
		ID:   b.NodeID(),
		Type: ty,
		Span: span,
		Data: hir.VarRefData{Name: name},
	}
	b.SetExprType(e.ID, ty)
	return e
}

// FuncWithBody wraps expressions into a function whose body evaluates them
// as statements.
func FuncWithBody(name string, exprs ...*hir.Expr) *hir.Func {
	body := &hir.Block{}
	for _, e := range exprs {
		body.Stmts = append(body.Stmts, hir.Stmt{
			Kind: hir.StmtExpr,
			Span: e.Span,
			Data: hir.ExprStmtData{Expr: e},
		})
	}
	return &hir.Func{Name: name, Body: body}
}

// SpanAt is shorthand for a span inside one file.
func SpanAt(file source.FileID, start, end int) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("span start overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("span end overflow: %w", err))
	}
	return source.Span{File: file, Start: s, End: e}
}
