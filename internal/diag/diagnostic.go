package diag

import (
	"sable/internal/source"
)

// Note is an out-of-band context line. Span may be empty for free-form
// explanatory notes.
type Note struct {
	Span source.Span
	Msg  string
}

// Label annotates a span inline with the rendered excerpt.
type Label struct {
	Span source.Span
	Msg  string
}

type FixEdit struct {
	Span    source.Span
	NewText string
	// OldText, when non-empty, guards the edit: the fix engine refuses to
	// apply unless the span still contains exactly this text.
	OldText string
}

type Fix struct {
	Title string
	Edits []FixEdit
}

// Diagnostic is one finding. Lint carries the pass name for lint-range
// codes; it is the identity @allow attributes and manifest lists suppress by.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Lint     string
	Message  string
	Primary  source.Span
	Labels   []Label
	Notes    []Note
	Fixes    []Fix
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithLabel(sp source.Span, msg string) Diagnostic {
	d.Labels = append(d.Labels, Label{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}
