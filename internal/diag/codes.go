package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Snapshot loading (1000-1999)
	SnapReadFailed     Code = 1001
	SnapSchemaMismatch Code = 1002
	SnapCorrupt        Code = 1003

	// Project / manifest (5000-5999)
	ProjManifestInvalid Code = 5002
	ProjUnknownLint     Code = 5003

	// Lints (9000-9999). Each lint pass owns exactly one code; the pass
	// name travels in Diagnostic.Lint.
	LintNoopMethodCall Code = 9001
)

var codeDescription = map[Code]string{
	UnknownCode:         "Unknown diagnostic",
	SnapReadFailed:      "Failed to read snapshot",
	SnapSchemaMismatch:  "Snapshot schema version mismatch",
	SnapCorrupt:         "Snapshot is corrupt",
	ProjManifestInvalid: "Invalid manifest",
	ProjUnknownLint:     "Unknown lint name",
	LintNoopMethodCall:  "Method call has no effect",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SNP%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("LNT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
