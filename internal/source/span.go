package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) inside one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover extends the span to include other. Spans from different files
// are left untouched.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

// TrailFrom returns the trailing part of s that begins where prefix ends:
// for a method call whose receiver occupies prefix, the result covers the
// `.method(...)` suffix. If prefix does not end inside s, s is returned
// unchanged.
func (s Span) TrailFrom(prefix Span) Span {
	if s.File != prefix.File || prefix.End < s.Start || prefix.End > s.End {
		return s
	}
	return Span{File: s.File, Start: prefix.End, End: s.End}
}
