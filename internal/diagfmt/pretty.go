package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"sable/internal/diag"
	"sable/internal/source"
)

var (
	prettyErrorColor   = color.New(color.FgRed, color.Bold)
	prettyWarningColor = color.New(color.FgYellow, color.Bold)
	prettyInfoColor    = color.New(color.FgCyan, color.Bold)
	prettyGutterColor  = color.New(color.FgBlue)
	prettyCaretColor   = color.New(color.FgRed, color.Bold)
)

// Pretty renders the bag's diagnostics in compiler style: a location
// header, the offending line with a caret underline, then labels, notes
// and fix suggestions. The bag is expected to be sorted already.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	items := bag.Items()
	for i := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &items[i], fs, opts)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sevColor := severityColor(d.Severity)
	sev := severityName(d.Severity)
	if opts.Color {
		sev = sevColor.Sprint(sev)
	}

	header := fmt.Sprintf("%s: %s: %s", location(fs, d.Primary, opts.PathMode, opts.BaseDir), sev, d.Message)
	if d.Lint != "" {
		header += fmt.Sprintf(" [%s]", d.Lint)
	}
	fmt.Fprintln(w, header)

	writeExcerpt(w, fs, d.Primary, labelFor(d, d.Primary), opts)

	for _, label := range d.Labels {
		if label.Span == d.Primary {
			continue // already rendered with the primary excerpt
		}
		writeExcerpt(w, fs, label.Span, label.Msg, opts)
	}

	if opts.ShowNotes {
		for _, note := range d.Notes {
			fmt.Fprintf(w, "  note: %s\n", note.Msg)
			if !note.Span.Empty() {
				writeExcerpt(w, fs, note.Span, "", opts)
			}
		}
	}

	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(w, "  fix: %s\n", fix.Title)
			for _, edit := range fix.Edits {
				if edit.NewText == "" {
					fmt.Fprintf(w, "    delete %s\n", spanPreview(fs, edit.Span))
				} else {
					fmt.Fprintf(w, "    replace %s with `%s`\n", spanPreview(fs, edit.Span), edit.NewText)
				}
			}
		}
	}
}

// labelFor picks the label attached at the primary span, if any.
func labelFor(d *diag.Diagnostic, primary source.Span) string {
	for _, label := range d.Labels {
		if label.Span == primary {
			return label.Msg
		}
	}
	return ""
}

// writeExcerpt prints the first line a span covers with a gutter and a
// caret underline. Widths are computed over NFC-normalized text so
// combining sequences and wide runes line up with the source line.
func writeExcerpt(w io.Writer, fs *source.FileSet, span source.Span, label string, opts PrettyOpts) {
	file := fs.Get(span.File)
	if file == nil {
		return
	}
	start, end := fs.Resolve(span)
	line := file.Line(start.Line)

	gutter := fmt.Sprintf("%4d | ", start.Line)
	pad := strings.Repeat(" ", 4) + " | "
	if opts.Color {
		gutter = prettyGutterColor.Sprint(gutter)
		pad = prettyGutterColor.Sprint(pad)
	}
	fmt.Fprintf(w, "%s%s\n", gutter, line)

	prefix := lineSlice(line, 0, start.Col-1)
	covered := lineSlice(line, start.Col-1, coveredEnd(start, end, line))
	indent := runewidth.StringWidth(norm.NFC.String(prefix))
	width := max(runewidth.StringWidth(norm.NFC.String(covered)), 1)

	caret := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		caret = prettyCaretColor.Sprint(caret)
	}
	underline := pad + strings.Repeat(" ", indent) + caret
	if label != "" {
		underline += " " + label
	}
	fmt.Fprintln(w, underline)
}

// coveredEnd clamps the underline to the first line of a span.
func coveredEnd(start, end source.LineCol, line string) uint32 {
	if end.Line != start.Line {
		return uint32(len(line))
	}
	return end.Col - 1
}

func lineSlice(line string, from, to uint32) string {
	n := uint32(len(line))
	if from > n {
		from = n
	}
	if to > n {
		to = n
	}
	if to < from {
		to = from
	}
	return line[from:to]
}

func spanPreview(fs *source.FileSet, span source.Span) string {
	text := fs.Slice(span)
	if text == "" {
		return span.String()
	}
	if runewidth.StringWidth(text) > 32 {
		text = runewidth.Truncate(text, 29, "...")
	}
	return fmt.Sprintf("`%s`", text)
}

func location(fs *source.FileSet, span source.Span, mode PathMode, baseDir string) string {
	file := fs.Get(span.File)
	if file == nil {
		return span.String()
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", file.DisplayPath(mode.displayMode(), baseDir), start.Line, start.Col)
}

func severityName(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return prettyErrorColor
	case diag.SevWarning:
		return prettyWarningColor
	default:
		return prettyInfoColor
	}
}
