package lint_test

import (
	"context"
	"fmt"
	"testing"

	"sable/internal/diag"
	"sable/internal/hir"
	"sable/internal/lint"
	"sable/internal/testkit"
)

func TestAllowAttributeSuppresses(t *testing.T) {
	fx := newDupFixture(t)
	call := fx.call(fx.boxRef, fx.boxRef, fx.blanket)
	fn := testkit.FuncWithBody("main", call)
	fn.Attrs = []hir.Attr{{Name: "allow", Args: []string{"noop_method_call"}}}
	fx.b.AddFunc(fn)

	if diags := runLint(t, fx.b.Snapshot(), lint.Config{Jobs: 1}); len(diags) != 0 {
		t.Fatalf("expected @allow to suppress, got %d diagnostics", len(diags))
	}
}

func TestAllowAttributeIsPerFunction(t *testing.T) {
	fx := newDupFixture(t)

	suppressed := fx.call(fx.boxRef, fx.boxRef, fx.blanket)
	fn := testkit.FuncWithBody("quiet", suppressed)
	fn.Attrs = []hir.Attr{{Name: "allow", Args: []string{"noop_method_call"}}}
	fx.b.AddFunc(fn)

	reported := fx.call(fx.boxRef, fx.boxRef, fx.blanket)
	fx.b.AddFunc(testkit.FuncWithBody("loud", reported))

	diags := runLint(t, fx.b.Snapshot(), lint.Config{Jobs: 1})
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic from the unsuppressed function, got %d", len(diags))
	}
}

func TestDenyConfigDisablesPass(t *testing.T) {
	fx := newDupFixture(t)
	call := fx.call(fx.boxRef, fx.boxRef, fx.blanket)
	fx.b.AddFunc(testkit.FuncWithBody("main", call))

	cfg := lint.Config{Jobs: 1, Deny: []string{"noop_method_call"}}
	if diags := runLint(t, fx.b.Snapshot(), cfg); len(diags) != 0 {
		t.Fatalf("expected deny list to disable the pass, got %d diagnostics", len(diags))
	}
}

func TestUnknownLintNameErrors(t *testing.T) {
	fx := newDupFixture(t)
	bag := diag.NewBag(8)
	err := lint.RunModule(context.Background(), fx.b.Snapshot(),
		diag.BagReporter{Bag: bag}, lint.Config{Allow: []string{"no_such_lint"}})
	if err == nil {
		t.Fatal("expected an error for an unknown lint name")
	}
}

func TestSelectPasses(t *testing.T) {
	all, err := lint.SelectPasses(lint.Config{})
	if err != nil {
		t.Fatalf("SelectPasses: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("registry is empty")
	}
	only, err := lint.SelectPasses(lint.Config{Allow: []string{"noop_method_call"}})
	if err != nil {
		t.Fatalf("SelectPasses: %v", err)
	}
	if len(only) != 1 || only[0].Name() != "noop_method_call" {
		t.Fatalf("allow list selected %d passes", len(only))
	}
}

func TestParallelRunMatchesSequential(t *testing.T) {
	fx := newDupFixture(t)
	for i := 0; i < 16; i++ {
		call := fx.call(fx.boxRef, fx.boxRef, fx.blanket)
		fx.b.AddFunc(testkit.FuncWithBody(fmt.Sprintf("fn%02d", i), call))
	}
	snap := fx.b.Snapshot()

	sequential := runLint(t, snap, lint.Config{Jobs: 1})
	parallel := runLint(t, snap, lint.Config{Jobs: 8})

	seq := diag.FormatGoldenDiagnostics(sequential, snap.Files, true)
	par := diag.FormatGoldenDiagnostics(parallel, snap.Files, true)
	if seq != par {
		t.Fatalf("parallel output differs:\nsequential:\n%s\nparallel:\n%s", seq, par)
	}
	if len(sequential) != 16 {
		t.Fatalf("expected 16 diagnostics, got %d", len(sequential))
	}
}

func TestCancelledContextStops(t *testing.T) {
	fx := newDupFixture(t)
	call := fx.call(fx.boxRef, fx.boxRef, fx.blanket)
	fx.b.AddFunc(testkit.FuncWithBody("main", call))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bag := diag.NewBag(8)
	err := lint.RunModule(ctx, fx.b.Snapshot(), diag.BagReporter{Bag: bag}, lint.Config{Jobs: 1})
	if err == nil {
		t.Fatal("expected a cancellation error")
	}
}
