// Package driver orchestrates the lint pipeline: discover snapshot
// files, decode them, run the lint passes, and collect per-file
// diagnostic bags.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sable/internal/diag"
	"sable/internal/lint"
	"sable/internal/observ"
	"sable/internal/pipeline"
	"sable/internal/sema"
	"sable/internal/source"
)

// Options configures a lint run.
type Options struct {
	// Jobs caps parallel workers; 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps each file's bag.
	MaxDiagnostics int
	// Config selects and configures the lint passes.
	Config lint.Config
	// WarningsAsErrors promotes every warning after the run.
	WarningsAsErrors bool
	// Progress receives pipeline events; may be nil.
	Progress pipeline.ProgressSink
}

const defaultMaxDiagnostics = 256

// LintResult holds one snapshot file's outcome.
type LintResult struct {
	Path     string
	Snapshot *sema.Snapshot
	Bag      *diag.Bag
	Stages   pipeline.Timings
}

// RunReport is the aggregated outcome of LintFiles.
type RunReport struct {
	Results []LintResult
	Timing  observ.Report
	// Stages sums per-file stage durations across the run.
	Stages pipeline.Timings
}

// ListSnapshotFiles returns the sorted .sbx files under dir.
func ListSnapshotFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, sema.SnapshotExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// LintDir discovers snapshots under dir and lints them.
func LintDir(ctx context.Context, dir string, opts Options) (*RunReport, error) {
	timer := observ.NewTimer()
	discover := timer.Begin("discover")
	files, err := ListSnapshotFiles(dir)
	timer.End(discover, fmt.Sprintf("%d snapshots", len(files)))
	if err != nil {
		return nil, err
	}
	return lintFiles(ctx, files, opts, timer)
}

// LintFiles decodes and lints the given snapshot files in parallel.
// Results come back indexed by input order; each file gets its own bag,
// so a corrupt snapshot degrades to diagnostics instead of failing the
// whole run.
func LintFiles(ctx context.Context, files []string, opts Options) (*RunReport, error) {
	return lintFiles(ctx, files, opts, observ.NewTimer())
}

func lintFiles(ctx context.Context, files []string, opts Options, timer *observ.Timer) (*RunReport, error) {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = defaultMaxDiagnostics
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	report := &RunReport{Results: make([]LintResult, len(files))}
	if len(files) == 0 {
		report.Timing = timer.Report()
		return report, nil
	}

	pipeline.EmitQueued(opts.Progress, files)

	phase := timer.Begin("lint")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			report.Results[i] = lintOne(gctx, path, opts)
			return nil
		})
	}
	err := g.Wait()
	timer.End(phase, fmt.Sprintf("%d files", len(files)))
	report.Timing = timer.Report()
	for _, res := range report.Results {
		for _, stage := range []pipeline.Stage{pipeline.StageLoad, pipeline.StageLint} {
			if res.Stages.Has(stage) {
				report.Stages.Set(stage, report.Stages.Duration(stage)+res.Stages.Duration(stage))
			}
		}
	}
	if err != nil {
		return report, err
	}
	return report, nil
}

// lintOne loads a snapshot and runs the passes over it. Every failure
// lands in the result's bag; the event stream mirrors the outcome.
func lintOne(ctx context.Context, path string, opts Options) LintResult {
	started := time.Now()
	pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})

	result := LintResult{Path: path, Bag: diag.NewBag(opts.MaxDiagnostics)}

	snap, err := sema.ReadSnapshotFile(path)
	result.Stages.Set(pipeline.StageLoad, time.Since(started))
	if err != nil {
		code := diag.SnapReadFailed
		switch {
		case errors.Is(err, sema.ErrSchema):
			code = diag.SnapSchemaMismatch
		case errors.Is(err, sema.ErrCorrupt):
			code = diag.SnapCorrupt
		}
		result.Bag.Add(diag.New(diag.SevError, code, source.Span{}, fmt.Sprintf("%s: %v", path, err)))
		pipeline.Emit(opts.Progress, pipeline.Event{
			File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusError,
			Err: err, Elapsed: time.Since(started),
		})
		return result
	}
	result.Snapshot = snap
	pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageLint, Status: pipeline.StatusWorking})

	cfg := opts.Config
	if cfg.Jobs == 0 {
		// Parallelism lives at the file level here; functions within
		// one snapshot are walked sequentially.
		cfg.Jobs = 1
	}
	lintStarted := time.Now()
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: result.Bag})
	if err := lint.RunModule(ctx, snap, reporter, cfg); err != nil {
		result.Bag.Add(diag.New(diag.SevError, diag.ProjUnknownLint, source.Span{}, err.Error()))
	}
	result.Stages.Set(pipeline.StageLint, time.Since(lintStarted))

	result.Bag.Dedup()
	result.Bag.Sort()
	if opts.WarningsAsErrors {
		result.Bag.PromoteWarnings()
	}

	status := pipeline.StatusDone
	if result.Bag.HasErrors() {
		status = pipeline.StatusError
	}
	pipeline.Emit(opts.Progress, pipeline.Event{
		File: path, Stage: pipeline.StageLint, Status: status,
		Elapsed: time.Since(started), Diagnostics: result.Bag.Len(),
	})
	return result
}

// MergeBags folds per-file bags into one sorted bag.
func MergeBags(results []LintResult, maxDiagnostics int) *diag.Bag {
	if maxDiagnostics <= 0 {
		maxDiagnostics = defaultMaxDiagnostics
	}
	merged := diag.NewBag(maxDiagnostics)
	for _, res := range results {
		if res.Bag == nil {
			continue
		}
		merged.Merge(res.Bag)
	}
	merged.Sort()
	return merged
}
