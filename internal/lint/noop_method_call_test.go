package lint_test

import (
	"context"
	"testing"

	"sable/internal/diag"
	"sable/internal/hir"
	"sable/internal/lint"
	"sable/internal/sema"
	"sable/internal/source"
	"sable/internal/symbols"
	"sable/internal/testkit"
	"sable/internal/types"
)

// dupFixture is the reference-blanket duplication scenario: a value of
// type Box that does not implement Dup itself, held through &Box, calling
// dup() via the blanket impl for references. Source layout:
//
//	let y = x.dup();
//	        ^ receiver at 8..9, call at 8..15
type dupFixture struct {
	b        *testkit.SnapshotBuilder
	file     source.FileID
	contract symbols.SymbolID
	member   symbols.SymbolID
	blanket  symbols.SymbolID
	direct   symbols.SymbolID
	box      types.TypeID
	boxRef   types.TypeID
}

func newDupFixture(t *testing.T) *dupFixture {
	t.Helper()
	b := testkit.NewSnapshot("app")
	f := b.AddFile("main.sb", "let y = x.dup();\n")

	box := b.Types().RegisterStruct(b.Intern("Box"), source.Span{}, nil)
	boxRef := b.Types().Intern(types.MakeReference(box, false))

	contract := b.Contract("Dup", "dup_contract")
	member := b.ContractMethod(contract, "dup")
	blanket := b.Impl(contract, "impl Dup for &T", true, "noop_dup_ref")
	direct := b.Impl(contract, "impl Dup for Box", false)

	return &dupFixture{
		b:        b,
		file:     f,
		contract: contract,
		member:   member,
		blanket:  blanket,
		direct:   direct,
		box:      box,
		boxRef:   boxRef,
	}
}

// call builds the x.dup() call with the given receiver/result types and
// wires target member, type args and resolution to the chosen impl.
func (fx *dupFixture) call(recvType, callType types.TypeID, impl symbols.SymbolID) *hir.Expr {
	recv := fx.b.VarRef("x", recvType, testkit.SpanAt(fx.file, 8, 9))
	call := fx.b.MethodCall("dup", recv, callType,
		testkit.SpanAt(fx.file, 8, 15), testkit.SpanAt(fx.file, 10, 13))
	fx.b.SetCallTarget(call.ID, sema.CallTarget{Contract: fx.contract, Member: fx.member})
	fx.b.SetCallTypeArgs(call.ID, recvType)
	if impl.IsValid() {
		fx.b.ResolveTo(fx.member, []types.TypeID{recvType}, sema.ParamEnv{}, impl)
	}
	return call
}

func runLint(t *testing.T, snap *sema.Snapshot, cfg lint.Config) []diag.Diagnostic {
	t.Helper()
	bag := diag.NewBag(64)
	if err := lint.RunModule(context.Background(), snap, diag.BagReporter{Bag: bag}, cfg); err != nil {
		t.Fatalf("RunModule: %v", err)
	}
	bag.Sort()
	return bag.Items()
}

func TestNoopDupThroughReferenceBlanket(t *testing.T) {
	fx := newDupFixture(t)
	call := fx.call(fx.boxRef, fx.boxRef, fx.blanket)
	fx.b.AddFunc(testkit.FuncWithBody("main", call))

	diags := runLint(t, fx.b.Snapshot(), lint.Config{Jobs: 1})
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	d := diags[0]
	if d.Code != diag.LintNoopMethodCall {
		t.Errorf("code = %s, want %s", d.Code.ID(), diag.LintNoopMethodCall.ID())
	}
	if d.Severity != diag.SevWarning {
		t.Errorf("severity = %v, want warning", d.Severity)
	}
	if d.Lint != "noop_method_call" {
		t.Errorf("lint = %q, want noop_method_call", d.Lint)
	}
	// The primary span isolates the `.dup()` suffix: receiver end to
	// call end.
	want := testkit.SpanAt(fx.file, 9, 15)
	if d.Primary != want {
		t.Errorf("primary span = %v, want %v", d.Primary, want)
	}
	if len(d.Labels) != 1 || d.Labels[0].Msg != "unnecessary method call" {
		t.Errorf("labels = %+v, want one 'unnecessary method call'", d.Labels)
	}
	if len(d.Notes) != 1 {
		t.Fatalf("notes = %+v, want one", d.Notes)
	}
	if d.Notes[0].Span != testkit.SpanAt(fx.file, 8, 9) {
		t.Errorf("note span = %v, want receiver span", d.Notes[0].Span)
	}
	if len(d.Fixes) != 1 || len(d.Fixes[0].Edits) != 1 {
		t.Fatalf("fixes = %+v, want one single-edit fix", d.Fixes)
	}
	edit := d.Fixes[0].Edits[0]
	if edit.Span != want || edit.NewText != "" {
		t.Errorf("fix edit = %+v, want deletion of %v", edit, want)
	}
	if edit.OldText != ".dup()" {
		t.Errorf("fix guard = %q, want the call suffix", edit.OldText)
	}
}

func TestDirectImplStaysSilent(t *testing.T) {
	// Box implements Dup directly; the direct impl is not catalogued.
	fx := newDupFixture(t)
	call := fx.call(fx.box, fx.box, fx.direct)
	fx.b.AddFunc(testkit.FuncWithBody("main", call))

	if diags := runLint(t, fx.b.Snapshot(), lint.Config{Jobs: 1}); len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %d", len(diags))
	}
}

func TestGenericContextSkips(t *testing.T) {
	// Same call inside fn f<T>(x: &T): the type argument still contains
	// T, so the eventual instantiation is unknown.
	fx := newDupFixture(t)
	param := fx.b.Types().RegisterTypeParam(fx.b.Intern("T"), 1, 0)
	paramRef := fx.b.Types().Intern(types.MakeReference(param, false))
	call := fx.call(paramRef, paramRef, fx.blanket)
	fx.b.AddFunc(testkit.FuncWithBody("f", call))

	if diags := runLint(t, fx.b.Snapshot(), lint.Config{Jobs: 1}); len(diags) != 0 {
		t.Fatalf("expected no diagnostics in generic context, got %d", len(diags))
	}
}

func TestNonAllowListedContract(t *testing.T) {
	b := testkit.NewSnapshot("app")
	f := b.AddFile("main.sb", "let y = x.dup();\n")
	box := b.Types().RegisterStruct(b.Intern("Box"), source.Span{}, nil)
	boxRef := b.Types().Intern(types.MakeReference(box, false))

	// Contract without the dup_contract tag; impl tagged anyway.
	contract := b.Contract("Dup")
	member := b.ContractMethod(contract, "dup")
	impl := b.Impl(contract, "impl Dup for &T", true, "noop_dup_ref")

	recv := b.VarRef("x", boxRef, testkit.SpanAt(f, 8, 9))
	call := b.MethodCall("dup", recv, boxRef, testkit.SpanAt(f, 8, 15), testkit.SpanAt(f, 10, 13))
	b.SetCallTarget(call.ID, sema.CallTarget{Contract: contract, Member: member})
	b.SetCallTypeArgs(call.ID, boxRef)
	b.ResolveTo(member, []types.TypeID{boxRef}, sema.ParamEnv{}, impl)
	b.AddFunc(testkit.FuncWithBody("main", call))

	if diags := runLint(t, b.Snapshot(), lint.Config{Jobs: 1}); len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %d", len(diags))
	}
}

func TestFailedResolutionSkips(t *testing.T) {
	fx := newDupFixture(t)
	call := fx.call(fx.boxRef, fx.boxRef, symbols.NoSymbolID) // nothing recorded
	fx.b.AddFunc(testkit.FuncWithBody("main", call))

	if diags := runLint(t, fx.b.Snapshot(), lint.Config{Jobs: 1}); len(diags) != 0 {
		t.Fatalf("expected no diagnostics without a resolution, got %d", len(diags))
	}
}

func TestAmbiguousResolutionSkips(t *testing.T) {
	fx := newDupFixture(t)
	call := fx.call(fx.boxRef, fx.boxRef, symbols.NoSymbolID)
	fx.b.ResolveAmbiguous(fx.member, []types.TypeID{fx.boxRef}, sema.ParamEnv{})
	fx.b.AddFunc(testkit.FuncWithBody("main", call))

	if diags := runLint(t, fx.b.Snapshot(), lint.Config{Jobs: 1}); len(diags) != 0 {
		t.Fatalf("expected no diagnostics on ambiguity, got %d", len(diags))
	}
}

func TestUncataloguedImplSkips(t *testing.T) {
	fx := newDupFixture(t)
	plain := fx.b.Impl(fx.contract, "impl Dup for &T (plain)", true) // no tag
	call := fx.call(fx.boxRef, fx.boxRef, plain)
	fx.b.AddFunc(testkit.FuncWithBody("main", call))

	if diags := runLint(t, fx.b.Snapshot(), lint.Config{Jobs: 1}); len(diags) != 0 {
		t.Fatalf("expected no diagnostics for uncatalogued impl, got %d", len(diags))
	}
}

func TestDifferingTypesSkips(t *testing.T) {
	// Result type differs from the receiver: a true transformation.
	fx := newDupFixture(t)
	call := fx.call(fx.boxRef, fx.box, fx.blanket)
	fx.b.AddFunc(testkit.FuncWithBody("main", call))

	if diags := runLint(t, fx.b.Snapshot(), lint.Config{Jobs: 1}); len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %d", len(diags))
	}
}

func TestAdjustedResultTypeSkips(t *testing.T) {
	// Declared result matches the receiver, but the surrounding context
	// coerces it to &mut Box; the adjusted type wins.
	fx := newDupFixture(t)
	call := fx.call(fx.boxRef, fx.boxRef, fx.blanket)
	boxRefMut := fx.b.Types().Intern(types.MakeReference(fx.box, true))
	fx.b.SetAdjustedType(call.ID, boxRefMut)
	fx.b.AddFunc(testkit.FuncWithBody("main", call))

	if diags := runLint(t, fx.b.Snapshot(), lint.Config{Jobs: 1}); len(diags) != 0 {
		t.Fatalf("expected no diagnostics after adjustment, got %d", len(diags))
	}
}

func TestAliasedReceiverStillMatches(t *testing.T) {
	// type BoxRef = &Box; identity is judged after alias resolution.
	fx := newDupFixture(t)
	alias := fx.b.Types().RegisterAlias(fx.b.Intern("BoxRef"), source.Span{})
	fx.b.Types().SetAliasTarget(alias, fx.boxRef)
	call := fx.call(alias, fx.boxRef, fx.blanket)
	fx.b.AddFunc(testkit.FuncWithBody("main", call))

	if diags := runLint(t, fx.b.Snapshot(), lint.Config{Jobs: 1}); len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic through the alias, got %d", len(diags))
	}
}

func TestPeelRefCatalogEntry(t *testing.T) {
	// A manifest entry with peel_ref compares the referent: receiver
	// &Box, result Box.
	fx := newDupFixture(t)
	contract := fx.b.Contract("Deref", "deref_contract")
	member := fx.b.ContractMethod(contract, "deref")
	impl := fx.b.Impl(contract, "impl Deref for &T", true, "noop_deref")

	recv := fx.b.VarRef("x", fx.boxRef, testkit.SpanAt(fx.file, 8, 9))
	call := fx.b.MethodCall("deref", recv, fx.box,
		testkit.SpanAt(fx.file, 8, 17), testkit.SpanAt(fx.file, 10, 15))
	fx.b.SetCallTarget(call.ID, sema.CallTarget{Contract: contract, Member: member})
	fx.b.SetCallTypeArgs(call.ID, fx.box)
	fx.b.ResolveTo(member, []types.TypeID{fx.box}, sema.ParamEnv{}, impl)
	fx.b.AddFunc(testkit.FuncWithBody("main", call))

	catalog := lint.DefaultCatalog()
	catalog.Add("deref_contract", "noop_deref", true)

	diags := runLint(t, fx.b.Snapshot(), lint.Config{Jobs: 1, Catalog: catalog})
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic with peel_ref entry, got %d", len(diags))
	}
	if want := testkit.SpanAt(fx.file, 9, 17); diags[0].Primary != want {
		t.Errorf("primary span = %v, want %v", diags[0].Primary, want)
	}
}

func TestIdempotentOverSameSnapshot(t *testing.T) {
	fx := newDupFixture(t)
	call := fx.call(fx.boxRef, fx.boxRef, fx.blanket)
	fx.b.AddFunc(testkit.FuncWithBody("main", call))
	snap := fx.b.Snapshot()

	first := diag.FormatGoldenDiagnostics(runLint(t, snap, lint.Config{Jobs: 1}), snap.Files, true)
	second := diag.FormatGoldenDiagnostics(runLint(t, snap, lint.Config{Jobs: 1}), snap.Files, true)
	if first != second {
		t.Fatalf("runs differ:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
	if first == "" {
		t.Fatal("expected a diagnostic in the golden output")
	}
}
