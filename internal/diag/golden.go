package diag

import (
	"fmt"
	"sort"
	"strings"

	"sable/internal/source"
)

type goldenDiagnostic struct {
	Severity string
	Code     string
	Lint     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatGoldenDiagnostics renders diagnostics into a stable,
// single-line-per-entry representation suitable for golden files and CLI
// short output. Entries are sorted deterministically; the result is empty
// when nothing remains.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]goldenDiagnostic, 0, len(diags))
	for i := range diags {
		rendered = appendGolden(rendered, &diags[i], fs, includeNotes)
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var sb strings.Builder
	for _, g := range rendered {
		sb.WriteString(g.Severity)
		sb.WriteByte(' ')
		sb.WriteString(g.Code)
		if g.Lint != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", g.Lint))
		}
		sb.WriteString(fmt.Sprintf(" %s:%d:%d %s\n", g.Path, g.Line, g.Column, g.Message))
	}
	return sb.String()
}

func appendGolden(out []goldenDiagnostic, d *Diagnostic, fs *source.FileSet, includeNotes bool) []goldenDiagnostic {
	start, _ := fs.Resolve(d.Primary)
	path := fs.Get(d.Primary.File).Path
	out = append(out, goldenDiagnostic{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Lint:     d.Lint,
		Path:     path,
		Line:     start.Line,
		Column:   start.Col,
		Message:  d.Message,
	})
	if includeNotes {
		for _, note := range d.Notes {
			notePath := path
			noteLine, noteCol := start.Line, start.Col
			if !note.Span.Empty() || note.Span.File != d.Primary.File {
				noteStart, _ := fs.Resolve(note.Span)
				notePath = fs.Get(note.Span.File).Path
				noteLine, noteCol = noteStart.Line, noteStart.Col
			}
			out = append(out, goldenDiagnostic{
				Severity: "NOTE",
				Code:     d.Code.ID(),
				Path:     notePath,
				Line:     noteLine,
				Column:   noteCol,
				Message:  note.Msg,
			})
		}
	}
	return out
}
