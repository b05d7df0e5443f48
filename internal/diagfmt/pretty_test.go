package diagfmt

import (
	"strings"
	"testing"

	"sable/internal/diag"
	"sable/internal/source"
)

func testBag(t *testing.T) (*diag.Bag, *source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.AddVirtual("main.sb", []byte("let y = x.dup();\n"))

	bag := diag.NewBag(16)
	d := diag.New(diag.SevWarning, diag.LintNoopMethodCall,
		source.Span{File: file, Start: 9, End: 15},
		"calling `dup` here does nothing")
	d.Lint = "noop_method_call"
	d = d.WithLabel(source.Span{File: file, Start: 9, End: 15}, "unnecessary method call")
	d = d.WithNote(source.Span{File: file, Start: 8, End: 9},
		"the receiver and the result both have type `&Box`; removing the call changes nothing")
	d = d.WithFix("remove the `.dup(...)` call",
		diag.FixEdit{Span: source.Span{File: file, Start: 9, End: 15}})
	bag.Add(d)
	bag.Sort()
	return bag, fs, file
}

func TestPrettyPlain(t *testing.T) {
	bag, fs, _ := testBag(t)

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{ShowNotes: true, ShowFixes: true})
	got := sb.String()

	want := strings.Join([]string{
		"main.sb:1:10: warning: calling `dup` here does nothing [noop_method_call]",
		"   1 | let y = x.dup();",
		"     |          ^~~~~~ unnecessary method call",
		"  note: the receiver and the result both have type `&Box`; removing the call changes nothing",
		"   1 | let y = x.dup();",
		"     |         ^",
		"  fix: remove the `.dup(...)` call",
		"    delete `.dup()`",
		"",
	}, "\n")
	if got != want {
		t.Errorf("pretty output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyUnderlineAlignsWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	// The identifier before the call is two double-width runes (4 cells).
	content := "口口.dup();\n"
	file := fs.AddVirtual("wide.sb", []byte(content))

	recvEnd := uint32(len("口口"))
	callEnd := uint32(len("口口.dup()"))
	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevWarning, diag.LintNoopMethodCall,
		source.Span{File: file, Start: recvEnd, End: callEnd}, "calling `dup` here does nothing"))

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{})
	lines := strings.Split(sb.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("short output:\n%s", sb.String())
	}
	underline := lines[2]
	// 4 display cells for the receiver, then the caret run over ".dup()".
	want := "     |     ^~~~~~"
	if underline != want {
		t.Errorf("underline = %q, want %q", underline, want)
	}
}

func TestPrettyMultipleDiagnosticsSeparated(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("main.sb", []byte("a.dup();\nb.dup();\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevWarning, diag.LintNoopMethodCall,
		source.Span{File: file, Start: 1, End: 7}, "first"))
	bag.Add(diag.New(diag.SevWarning, diag.LintNoopMethodCall,
		source.Span{File: file, Start: 10, End: 16}, "second"))
	bag.Sort()

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{})
	out := sb.String()
	if strings.Count(out, "warning") != 2 {
		t.Errorf("expected two diagnostics, got:\n%s", out)
	}
	if !strings.Contains(out, "\n\n") {
		t.Errorf("expected a blank separator line, got:\n%s", out)
	}
}
