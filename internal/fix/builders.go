package fix

import (
	"sable/internal/diag"
	"sable/internal/source"
)

// InsertText builds a fix inserting text at a point. guard, when
// non-empty, must match the text currently at the span.
func InsertText(title string, at source.Span, text, guard string) diag.Fix {
	return diag.Fix{
		Title: title,
		Edits: []diag.FixEdit{{
			Span:    source.Span{File: at.File, Start: at.Start, End: at.Start},
			NewText: text,
			OldText: guard,
		}},
	}
}

// DeleteSpan builds a fix removing the span. expect guards against the
// file having changed since the diagnostic was produced.
func DeleteSpan(title string, span source.Span, expect string) diag.Fix {
	return diag.Fix{
		Title: title,
		Edits: []diag.FixEdit{{
			Span:    span,
			OldText: expect,
		}},
	}
}

// ReplaceSpan builds a fix replacing the span with new text.
func ReplaceSpan(title string, span source.Span, newText, expect string) diag.Fix {
	return diag.Fix{
		Title: title,
		Edits: []diag.FixEdit{{
			Span:    span,
			NewText: newText,
			OldText: expect,
		}},
	}
}

// RemoveCallSuffix builds the no-op method-call fix: delete everything
// from the end of the receiver to the end of the call.
func RemoveCallSuffix(method string, trail source.Span, expect string) diag.Fix {
	return DeleteSpan("remove the `."+method+"(...)` call", trail, expect)
}
