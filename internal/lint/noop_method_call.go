package lint

import (
	"fmt"

	"sable/internal/diag"
	"sable/internal/fix"
	"sable/internal/hir"
	"sable/internal/types"
)

func init() {
	Register(noopMethodCall{})
}

// noopMethodCall flags method calls that provably return their receiver
// unchanged: the call targets an allow-listed contract, resolves to an
// implementation catalogued as a no-op, and the receiver and result
// types are identical. Each call site runs through six gates in order;
// failing any gate skips the site silently. The rule prefers false
// negatives over false positives throughout.
type noopMethodCall struct{}

func (noopMethodCall) Name() string { return "noop_method_call" }

func (noopMethodCall) Code() diag.Code { return diag.LintNoopMethodCall }

func (p noopMethodCall) CheckExpr(ctx *Context, e *hir.Expr) {
	// Gate 1: only method calls with a receiver are interesting.
	if e.Kind != hir.ExprMethodCall {
		return
	}
	call, ok := e.Data.(hir.MethodCallData)
	if !ok || call.Receiver == nil {
		return
	}

	// Gate 2: the checker must have recorded a target member, and its
	// contract must carry an allow-listed tag.
	target, ok := ctx.Oracle.TargetMember(e.ID)
	if !ok {
		return
	}
	if !ctx.Catalog.AllowsContract(ctx.Oracle, target.Contract) {
		return
	}

	// Gate 3: inside a generic context the eventual instantiation is
	// unknown, so resolution below would be meaningless. Skip.
	args := ctx.Oracle.NodeTypeArgs(e.ID)
	if ctx.Oracle.HasUnresolvedParams(args) {
		return
	}

	// Gate 4: exactly one concrete implementation, or nothing to say.
	inst, ok := ctx.Oracle.ResolveInstance(target.Member, args, target.Env)
	if !ok {
		return
	}

	// Gate 5: the implementation must be catalogued as a no-op path.
	entry, ok := ctx.Catalog.Match(ctx.Oracle, target.Contract, inst.Impl)
	if !ok {
		return
	}

	// Gate 6: receiver type vs adjusted result type. This identity is
	// the soundness crux: a catalogued member that actually transforms
	// the value yields a different result type and falls out here.
	recvTy, _ := ctx.Oracle.ExprType(call.Receiver.ID)
	_, resultTy := ctx.Oracle.ExprType(e.ID)
	if recvTy == types.NoTypeID || resultTy == types.NoTypeID {
		return
	}
	if entry.PeelRef && ctx.Types.IsReference(recvTy) {
		recvTy = ctx.Types.Peel(recvTy)
	}
	if !ctx.Types.Identical(recvTy, resultTy) {
		return
	}

	trail := e.Span.TrailFrom(call.Receiver.Span)
	recvLabel := types.Label(ctx.Types, recvTy)
	var guard string
	if ctx.Files != nil {
		guard = ctx.Files.Slice(trail)
	}
	suggestion := fix.RemoveCallSuffix(call.Method, trail, guard)
	diag.ReportWarning(ctx.Reporter, p.Code(), trail,
		fmt.Sprintf("calling `%s` here does nothing", call.Method)).
		WithLint(p.Name()).
		WithLabel(trail, "unnecessary method call").
		WithNote(call.Receiver.Span,
			fmt.Sprintf("the receiver and the result both have type `%s`; removing the call changes nothing", recvLabel)).
		WithFix(suggestion.Title, suggestion.Edits...).
		Emit()
}
