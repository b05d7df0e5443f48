package diag

import (
	"strings"
	"sync"
	"testing"

	"sable/internal/source"
)

func span(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

func TestBagSortDeterministic(t *testing.T) {
	bag := NewBag(16)
	bag.Add(New(SevWarning, LintNoopMethodCall, span(1, 40, 50), "later"))
	bag.Add(New(SevWarning, LintNoopMethodCall, span(0, 10, 20), "other file"))
	bag.Add(New(SevError, LintNoopMethodCall, span(1, 40, 50), "same span error"))
	bag.Sort()

	items := bag.Items()
	if items[0].Message != "other file" {
		t.Fatalf("first item = %q", items[0].Message)
	}
	// Same span: errors sort before warnings.
	if items[1].Severity != SevError {
		t.Fatalf("severity order broken: %v", items[1].Severity)
	}
}

func TestBagLimitAndMerge(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(New(SevWarning, LintNoopMethodCall, span(0, 0, 1), "kept")) {
		t.Fatal("first add must succeed")
	}
	if bag.Add(New(SevWarning, LintNoopMethodCall, span(0, 1, 2), "dropped")) {
		t.Fatal("add past the limit must fail")
	}

	other := NewBag(4)
	other.Add(New(SevError, SnapCorrupt, span(0, 2, 3), "merged"))
	bag.Merge(other)
	if bag.Len() != 2 {
		t.Fatalf("merged Len = %d, want 2", bag.Len())
	}
	if !bag.HasErrors() {
		t.Fatal("merged bag should report errors")
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(8)
	d := New(SevWarning, LintNoopMethodCall, span(0, 5, 9), "dup")
	bag.Add(d)
	bag.Add(d)
	bag.Add(New(SevWarning, LintNoopMethodCall, span(0, 5, 9), "different message"))
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("after Dedup Len = %d, want 2", bag.Len())
	}
}

func TestBagPromoteWarnings(t *testing.T) {
	bag := NewBag(4)
	bag.Add(New(SevWarning, LintNoopMethodCall, span(0, 0, 1), "w"))
	bag.Add(New(SevInfo, SnapReadFailed, span(0, 0, 1), "i"))
	bag.PromoteWarnings()
	if !bag.HasErrors() {
		t.Fatal("warning should have been promoted")
	}
	if bag.Items()[1].Severity != SevInfo {
		t.Fatal("info diagnostics must stay info")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(8)
	r := NewDedupReporter(BagReporter{Bag: bag})
	d := New(SevWarning, LintNoopMethodCall, span(0, 5, 9), "dup")
	r.Report(d)
	r.Report(d)
	if bag.Len() != 1 {
		t.Fatalf("dedup reporter let %d through, want 1", bag.Len())
	}
}

func TestSyncReporterConcurrent(t *testing.T) {
	bag := NewBag(256)
	r := NewSyncReporter(BagReporter{Bag: bag})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 16; i++ {
				r.Report(New(SevWarning, LintNoopMethodCall, span(0, uint32(g), uint32(g+i)), "concurrent"))
			}
		}(g)
	}
	wg.Wait()
	if bag.Len() != 128 {
		t.Fatalf("sync reporter lost diagnostics: %d, want 128", bag.Len())
	}
}

func TestReportBuilderChain(t *testing.T) {
	bag := NewBag(4)
	ReportWarning(BagReporter{Bag: bag}, LintNoopMethodCall, span(0, 10, 16), "calling `dup` does nothing here").
		WithLint("noop_method_call").
		WithLabel(span(0, 10, 16), "unnecessary method call").
		WithNote(source.Span{}, "receiver and result have the same type").
		Emit()

	if bag.Len() != 1 {
		t.Fatalf("Len = %d, want 1", bag.Len())
	}
	d := bag.Items()[0]
	if d.Lint != "noop_method_call" || len(d.Labels) != 1 || len(d.Notes) != 1 {
		t.Fatalf("builder dropped fields: %+v", d)
	}
}

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.sb", []byte("let y = x.dup();\n"))

	diags := []Diagnostic{
		New(SevWarning, LintNoopMethodCall, span(id, 9, 15), "calling `dup` does nothing here").
			WithNote(source.Span{}, "types coincide"),
	}
	diags[0].Lint = "noop_method_call"

	got := FormatGoldenDiagnostics(diags, fs, true)
	want := "WARNING LNT9001 (noop_method_call) main.sb:1:10 calling `dup` does nothing here\n" +
		"NOTE LNT9001 main.sb:1:10 types coincide\n"
	if got != want {
		t.Fatalf("golden mismatch:\ngot:\n%swant:\n%s", got, want)
	}
	if !strings.Contains(got, "LNT9001") {
		t.Fatal("missing lint code ID")
	}
}
