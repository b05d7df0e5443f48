package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sable/internal/diag"
	"sable/internal/lint"
	"sable/internal/pipeline"
	"sable/internal/sema"
	"sable/internal/source"
	"sable/internal/testkit"
	"sable/internal/types"
)

// writeNoopSnapshot persists a snapshot holding one reference-blanket
// duplication call, the positive case for the no-op pass.
func writeNoopSnapshot(t *testing.T, dir, name string) string {
	t.Helper()
	b := testkit.NewSnapshot("app")
	f := b.AddFile("main.sb", "let y = x.dup();\n")

	box := b.Types().RegisterStruct(b.Intern("Box"), source.Span{}, nil)
	boxRef := b.Types().Intern(types.MakeReference(box, false))

	contract := b.Contract("Dup", "dup_contract")
	member := b.ContractMethod(contract, "dup")
	blanket := b.Impl(contract, "impl Dup for &T", true, "noop_dup_ref")

	recv := b.VarRef("x", boxRef, testkit.SpanAt(f, 8, 9))
	call := b.MethodCall("dup", recv, boxRef, testkit.SpanAt(f, 8, 15), testkit.SpanAt(f, 10, 13))
	b.SetCallTarget(call.ID, sema.CallTarget{Contract: contract, Member: member})
	b.SetCallTypeArgs(call.ID, boxRef)
	b.ResolveTo(member, []types.TypeID{boxRef}, sema.ParamEnv{}, blanket)
	b.AddFunc(testkit.FuncWithBody("main", call))

	path := filepath.Join(dir, name)
	if err := sema.WriteSnapshotFile(path, b.Snapshot()); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func TestLintDir(t *testing.T) {
	dir := t.TempDir()
	writeNoopSnapshot(t, dir, "a"+sema.SnapshotExt)
	writeNoopSnapshot(t, dir, "b"+sema.SnapshotExt)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	report, err := LintDir(context.Background(), dir, Options{Jobs: 2})
	if err != nil {
		t.Fatalf("LintDir: %v", err)
	}
	if len(report.Results) != 2 {
		t.Fatalf("results = %d, want 2 (.txt must be ignored)", len(report.Results))
	}
	for _, res := range report.Results {
		if res.Snapshot == nil {
			t.Fatalf("%s: snapshot not decoded", res.Path)
		}
		if res.Bag.Len() != 1 {
			t.Errorf("%s: diagnostics = %d, want 1", res.Path, res.Bag.Len())
		}
		if res.Bag.HasErrors() {
			t.Errorf("%s: unexpected errors", res.Path)
		}
	}
	// Input order is preserved regardless of worker scheduling.
	if filepath.Base(report.Results[0].Path) != "a"+sema.SnapshotExt {
		t.Errorf("order: %s first", report.Results[0].Path)
	}

	merged := MergeBags(report.Results, 0)
	if merged.Len() != 2 {
		t.Errorf("merged = %d, want 2", merged.Len())
	}
}

func TestLintFilesCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	good := writeNoopSnapshot(t, dir, "good"+sema.SnapshotExt)
	bad := filepath.Join(dir, "bad"+sema.SnapshotExt)
	if err := os.WriteFile(bad, []byte("not msgpack"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	report, err := LintFiles(context.Background(), []string{bad, good}, Options{Jobs: 1})
	if err != nil {
		t.Fatalf("LintFiles: %v", err)
	}
	badRes, goodRes := report.Results[0], report.Results[1]
	if badRes.Snapshot != nil || !badRes.Bag.HasErrors() {
		t.Errorf("corrupt snapshot should produce an error bag, got %+v", badRes.Bag.Items())
	}
	if code := badRes.Bag.Items()[0].Code; code != diag.SnapCorrupt {
		t.Errorf("code = %s, want %s", code.ID(), diag.SnapCorrupt.ID())
	}
	if goodRes.Snapshot == nil || goodRes.Bag.HasErrors() {
		t.Error("good snapshot must still lint")
	}
}

// Two functions hitting the same call site span produce one diagnostic,
// not two: the driver's reporter suppresses duplicates.
func TestLintFilesDedupIdenticalSites(t *testing.T) {
	b := testkit.NewSnapshot("app")
	f := b.AddFile("main.sb", "let y = x.dup();\n")

	box := b.Types().RegisterStruct(b.Intern("Box"), source.Span{}, nil)
	boxRef := b.Types().Intern(types.MakeReference(box, false))
	contract := b.Contract("Dup", "dup_contract")
	member := b.ContractMethod(contract, "dup")
	blanket := b.Impl(contract, "impl Dup for &T", true, "noop_dup_ref")
	b.ResolveTo(member, []types.TypeID{boxRef}, sema.ParamEnv{}, blanket)

	for _, name := range []string{"main", "again"} {
		recv := b.VarRef("x", boxRef, testkit.SpanAt(f, 8, 9))
		call := b.MethodCall("dup", recv, boxRef, testkit.SpanAt(f, 8, 15), testkit.SpanAt(f, 10, 13))
		b.SetCallTarget(call.ID, sema.CallTarget{Contract: contract, Member: member})
		b.SetCallTypeArgs(call.ID, boxRef)
		b.AddFunc(testkit.FuncWithBody(name, call))
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "dup"+sema.SnapshotExt)
	if err := sema.WriteSnapshotFile(path, b.Snapshot()); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	report, err := LintFiles(context.Background(), []string{path}, Options{Jobs: 1})
	if err != nil {
		t.Fatalf("LintFiles: %v", err)
	}
	if got := report.Results[0].Bag.Len(); got != 1 {
		t.Errorf("diagnostics = %d, want 1 after dedup", got)
	}
}

func TestLintFilesRecordsStageTimings(t *testing.T) {
	dir := t.TempDir()
	good := writeNoopSnapshot(t, dir, "good"+sema.SnapshotExt)
	bad := filepath.Join(dir, "bad"+sema.SnapshotExt)
	if err := os.WriteFile(bad, []byte("not msgpack"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	report, err := LintFiles(context.Background(), []string{good, bad}, Options{Jobs: 1})
	if err != nil {
		t.Fatalf("LintFiles: %v", err)
	}

	goodRes, badRes := report.Results[0], report.Results[1]
	if !goodRes.Stages.Has(pipeline.StageLoad) || !goodRes.Stages.Has(pipeline.StageLint) {
		t.Error("good file must record load and lint durations")
	}
	// A file that fails to decode never reaches the lint stage.
	if !badRes.Stages.Has(pipeline.StageLoad) || badRes.Stages.Has(pipeline.StageLint) {
		t.Error("corrupt file must record only the load stage")
	}
	if !report.Stages.Has(pipeline.StageLoad) || !report.Stages.Has(pipeline.StageLint) {
		t.Error("run report must aggregate stage durations")
	}
	if report.Stages.Duration(pipeline.StageLoad) < goodRes.Stages.Duration(pipeline.StageLoad) {
		t.Error("aggregate load duration must cover every file")
	}
}

func TestLintFilesWarningsAsErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeNoopSnapshot(t, dir, "a"+sema.SnapshotExt)

	report, err := LintFiles(context.Background(), []string{path}, Options{Jobs: 1, WarningsAsErrors: true})
	if err != nil {
		t.Fatalf("LintFiles: %v", err)
	}
	bag := report.Results[0].Bag
	if !bag.HasErrors() || bag.HasWarnings() {
		t.Errorf("promotion failed: errors=%v warnings=%v", bag.HasErrors(), bag.HasWarnings())
	}
}

func TestLintFilesDenyConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeNoopSnapshot(t, dir, "a"+sema.SnapshotExt)

	opts := Options{Jobs: 1, Config: lint.Config{Deny: []string{"noop_method_call"}}}
	report, err := LintFiles(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatalf("LintFiles: %v", err)
	}
	if report.Results[0].Bag.Len() != 0 {
		t.Errorf("deny list ignored: %d diagnostics", report.Results[0].Bag.Len())
	}
}

func TestLintFilesProgressEvents(t *testing.T) {
	dir := t.TempDir()
	path := writeNoopSnapshot(t, dir, "a"+sema.SnapshotExt)

	ch := make(chan pipeline.Event, 16)
	_, err := LintFiles(context.Background(), []string{path}, Options{
		Jobs:     1,
		Progress: pipeline.ChannelSink{Ch: ch},
	})
	if err != nil {
		t.Fatalf("LintFiles: %v", err)
	}
	close(ch)

	var statuses []pipeline.Status
	for evt := range ch {
		if evt.File != path {
			t.Errorf("event for %q", evt.File)
		}
		statuses = append(statuses, evt.Status)
	}
	want := []pipeline.Status{
		pipeline.StatusQueued,
		pipeline.StatusWorking, // load
		pipeline.StatusWorking, // lint
		pipeline.StatusDone,
	}
	if len(statuses) != len(want) {
		t.Fatalf("statuses = %v, want %v", statuses, want)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Fatalf("statuses = %v, want %v", statuses, want)
		}
	}
}

func TestLintFilesEmpty(t *testing.T) {
	report, err := LintFiles(context.Background(), nil, Options{})
	if err != nil {
		t.Fatalf("LintFiles: %v", err)
	}
	if len(report.Results) != 0 {
		t.Errorf("results = %d", len(report.Results))
	}
	if diagBag := MergeBags(report.Results, 4); diagBag.Len() != 0 {
		t.Errorf("merged = %d", diagBag.Len())
	}
}
