// Package fix applies suggested fixes from diagnostics to the files they
// reference. Fixes are applied one at a time; a fix whose edits overlap
// already-applied edits, fail their OldText guard or fall out of range is
// skipped with a reason rather than applied partially.
package fix

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"sable/internal/diag"
	"sable/internal/source"
)

// ApplyOptions configures a fix run.
type ApplyOptions struct {
	// DryRun stages every change but writes nothing to disk.
	DryRun bool
}

// AppliedFix describes one fix that made it into the output.
type AppliedFix struct {
	Title     string
	Code      diag.Code
	Message   string
	Path      string
	EditCount int
}

// SkippedFix describes one fix that was not applied, with the reason.
type SkippedFix struct {
	Title  string
	Reason string
}

// FileChange summarizes edits per written file.
type FileChange struct {
	Path      string
	EditCount int
}

// ApplyResult is the outcome of Apply.
type ApplyResult struct {
	Applied []AppliedFix
	Skipped []SkippedFix
	Changes []FileChange
}

type candidate struct {
	d   *diag.Diagnostic
	fix diag.Fix
}

// Apply walks the diagnostics in order and applies their fixes. The
// diagnostics are expected to be sorted already, which makes the
// selection deterministic: earlier diagnostics win conflicts.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	var candidates []candidate
	for i := range diagnostics {
		for _, f := range diagnostics[i].Fixes {
			if len(f.Edits) == 0 {
				continue
			}
			candidates = append(candidates, candidate{d: &diagnostics[i], fix: f})
		}
	}

	result := &ApplyResult{}
	buffers := make(map[source.FileID][]byte)
	appliedEdits := make(map[source.FileID][]diag.FixEdit)
	editCount := make(map[source.FileID]int)

	for _, cand := range candidates {
		staged, reason := stageFix(fs, buffers, appliedEdits, cand.fix)
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{Title: cand.fix.Title, Reason: reason})
			continue
		}
		total := 0
		for fileID, st := range staged {
			buffers[fileID] = st.content
			appliedEdits[fileID] = st.edits
			editCount[fileID] += st.count
			total += st.count
		}
		result.Applied = append(result.Applied, AppliedFix{
			Title:     cand.fix.Title,
			Code:      cand.d.Code,
			Message:   cand.d.Message,
			Path:      displayPath(fs, cand.d.Primary.File),
			EditCount: total,
		})
	}

	for fileID, buf := range buffers {
		file := fs.Get(fileID)
		result.Changes = append(result.Changes, FileChange{
			Path:      file.Path,
			EditCount: editCount[fileID],
		})
		if opts.DryRun {
			continue
		}
		if err := writeFileAtomic(file.Path, buf); err != nil {
			return result, err
		}
	}
	sort.SliceStable(result.Changes, func(i, j int) bool {
		return result.Changes[i].Path < result.Changes[j].Path
	})
	return result, nil
}

type stagedFile struct {
	content []byte
	edits   []diag.FixEdit
	count   int
}

// stageFix applies every edit of one fix against working copies. The fix
// lands whole or not at all; the first failing edit rejects it.
func stageFix(fs *source.FileSet, buffers map[source.FileID][]byte, applied map[source.FileID][]diag.FixEdit, f diag.Fix) (map[source.FileID]stagedFile, string) {
	buckets := make(map[source.FileID][]diag.FixEdit)
	for _, edit := range f.Edits {
		buckets[edit.Span.File] = append(buckets[edit.Span.File], edit)
	}

	staged := make(map[source.FileID]stagedFile, len(buckets))
	for fileID, edits := range buckets {
		file := fs.Get(fileID)
		if file == nil {
			return nil, "unknown file"
		}
		if file.Flags&source.FileVirtual != 0 {
			return nil, "target file is virtual"
		}
		for _, prev := range applied[fileID] {
			for _, edit := range edits {
				if spansConflict(prev.Span, edit.Span) {
					return nil, fmt.Sprintf("conflicts with an earlier fix in %s", file.Path)
				}
			}
		}

		working := buffers[fileID]
		if working == nil {
			working = append([]byte(nil), file.Content...)
		} else {
			working = append([]byte(nil), working...)
		}

		// Back to front, so earlier offsets stay valid. Offsets are
		// shifted by the deltas of edits already applied before them.
		sort.SliceStable(edits, func(i, j int) bool {
			return edits[i].Span.Start > edits[j].Span.Start
		})
		history := append([]diag.FixEdit(nil), applied[fileID]...)
		for _, edit := range edits {
			start := int(edit.Span.Start) + deltaBefore(history, edit.Span.Start)
			end := int(edit.Span.End) + deltaBefore(history, edit.Span.End)
			if start < 0 || end < start || end > len(working) {
				return nil, "edit span out of range"
			}
			if edit.OldText != "" && string(working[start:end]) != edit.OldText {
				return nil, "existing text does not match expected content"
			}
			suffix := append([]byte(nil), working[end:]...)
			working = append(append(working[:start], []byte(edit.NewText)...), suffix...)
			history = append(history, edit)
		}

		staged[fileID] = stagedFile{
			content: working,
			edits:   history,
			count:   len(edits),
		}
	}
	return staged, ""
}

// deltaBefore sums the length changes of edits that end at or before pos
// in original-file coordinates.
func deltaBefore(edits []diag.FixEdit, pos uint32) int {
	delta := 0
	for _, e := range edits {
		if e.Span.End <= pos {
			delta += len(e.NewText) - int(e.Span.End-e.Span.Start)
		}
	}
	return delta
}

// spansConflict treats spans as half-open intervals. Two insertions at
// the same point never conflict; an insertion inside a replaced range
// does.
func spansConflict(a, b source.Span) bool {
	if a.File != b.File {
		return false
	}
	if a.Empty() && b.Empty() {
		return false
	}
	if a.Empty() {
		return b.Start <= a.Start && a.Start < b.End
	}
	if b.Empty() {
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

func writeFileAtomic(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".fix-*")
	if err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("stage %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("stage %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("stage %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func displayPath(fs *source.FileSet, fileID source.FileID) string {
	file := fs.Get(fileID)
	if file == nil {
		return ""
	}
	return file.DisplayPath("auto", "")
}
