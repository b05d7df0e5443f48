package source

import (
	"testing"
)

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("main.sb", []byte("let x = 1;\nlet y = x.dup();\n"))

	start, end := fs.Resolve(Span{File: id, Start: 11, End: 26})
	if start.Line != 2 || start.Col != 1 {
		t.Fatalf("start = %d:%d, want 2:1", start.Line, start.Col)
	}
	if end.Line != 2 || end.Col != 16 {
		t.Fatalf("end = %d:%d, want 2:16", end.Line, end.Col)
	}
}

func TestFileSetSlice(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("main.sb", []byte("value.dup()"))

	if got := fs.Slice(Span{File: id, Start: 5, End: 11}); got != ".dup()" {
		t.Fatalf("Slice = %q, want %q", got, ".dup()")
	}
	// Clamped past the end of the file.
	if got := fs.Slice(Span{File: id, Start: 5, End: 99}); got != ".dup()" {
		t.Fatalf("Slice(clamped) = %q, want %q", got, ".dup()")
	}
}

func TestFileLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("m.sb", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	tests := []struct {
		line uint32
		want string
	}{
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
		{0, ""},
	}
	for _, tt := range tests {
		if got := f.Line(tt.line); got != tt.want {
			t.Fatalf("Line(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestFileSetNormalization(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("win.sb", []byte("a\nb"), FileNormalizedCRLF)
	f := fs.Get(id)
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Fatal("expected FileNormalizedCRLF flag")
	}
	if _, ok := fs.ByPath("./win.sb"); !ok {
		t.Fatal("ByPath should normalize the lookup path")
	}
}

func TestNormalizeCRLF(t *testing.T) {
	got, changed := normalizeCRLF([]byte("a\r\nb\rc\r\n"))
	if !changed {
		t.Fatal("expected change flag")
	}
	if string(got) != "a\nb\rc\n" {
		t.Fatalf("normalizeCRLF = %q", got)
	}

	plain := []byte("no carriage returns")
	got, changed = normalizeCRLF(plain)
	if changed || string(got) != string(plain) {
		t.Fatalf("normalizeCRLF should be a no-op, got %q changed=%v", got, changed)
	}
}
