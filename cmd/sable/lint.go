package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"sable/internal/diag"
	"sable/internal/diagfmt"
	"sable/internal/driver"
	"sable/internal/observ"
	"sable/internal/pipeline"
	"sable/internal/project"
	"sable/internal/source"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] [<file.sbx|directory>]",
	Short: "Lint semantic snapshots for no-op method calls",
	Long: `Run the lint passes over compiled semantic snapshots (*.sbx).
With no argument the current directory is scanned. Pass and catalog
configuration is read from sable.toml when one is found above the target.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
}

func init() {
	lintCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	lintCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	lintCmd.Flags().StringSlice("allow", nil, "lints to enable in addition to the manifest")
	lintCmd.Flags().StringSlice("deny", nil, "lints to disable in addition to the manifest")
	lintCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	lintCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	lintCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	lintCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	lintCmd.Flags().String("ui", "off", "interactive progress (auto|on|off)")
}

func runLint(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	allow, err := cmd.Flags().GetStringSlice("allow")
	if err != nil {
		return fmt.Errorf("failed to get allow flag: %w", err)
	}
	deny, err := cmd.Flags().GetStringSlice("deny")
	if err != nil {
		return fmt.Errorf("failed to get deny flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	opts, err := lintOptions(target, allow, deny)
	if err != nil {
		return err
	}
	opts.Jobs = jobs
	opts.MaxDiagnostics = maxDiagnostics
	opts.WarningsAsErrors = opts.WarningsAsErrors || warningsAsErrors

	files, err := snapshotTargets(target)
	if err != nil {
		return err
	}

	var report *driver.RunReport
	if shouldUseTUI(mode) && format == "pretty" {
		report, err = runLintWithUI(cmd.Context(), "linting "+target, files, opts)
	} else {
		report, err = driver.LintFiles(cmd.Context(), files, opts)
	}
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	reportStarted := time.Now()
	if err := writeLintReport(os.Stdout, report, lintOutput{
		format:    format,
		color:     useColor,
		pathMode:  pathMode,
		withNotes: withNotes,
		suggest:   suggest,
		max:       maxDiagnostics,
	}); err != nil {
		return err
	}
	report.Stages.Set(pipeline.StageReport, time.Since(reportStarted))

	if showTimings {
		printTimings(os.Stderr, report.Timing, report.Stages)
	}

	for _, r := range report.Results {
		if r.Bag != nil && r.Bag.HasErrors() {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return fmt.Errorf("") // diagnostics already printed
		}
	}
	return nil
}

// lintOptions builds driver options from the manifest nearest to the
// target, falling back to defaults when no sable.toml is found.
func lintOptions(target string, allow, deny []string) (driver.Options, error) {
	var opts driver.Options

	startDir := target
	if st, err := os.Stat(target); err == nil && !st.IsDir() {
		startDir = filepath.Dir(target)
	}
	manifestPath, ok, err := project.FindManifest(startDir)
	if err != nil {
		return opts, err
	}
	if ok {
		manifest, err := project.Load(manifestPath)
		if err != nil {
			return opts, fmt.Errorf("%s: %w", diag.ProjManifestInvalid.ID(), err)
		}
		opts.Config = manifest.LintConfig()
		opts.WarningsAsErrors = manifest.Lint.WarningsAsErrors
	}
	opts.Config.Allow = append(opts.Config.Allow, allow...)
	opts.Config.Deny = append(opts.Config.Deny, deny...)
	return opts, nil
}

// snapshotTargets expands the target into the list of snapshot files.
func snapshotTargets(target string) ([]string, error) {
	st, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}
	if !st.IsDir() {
		return []string{target}, nil
	}
	return driver.ListSnapshotFiles(target)
}

type lintOutput struct {
	format    string
	color     bool
	pathMode  diagfmt.PathMode
	withNotes bool
	suggest   bool
	max       int
}

func writeLintReport(w io.Writer, report *driver.RunReport, out lintOutput) error {
	switch out.format {
	case "pretty":
		prettyOpts := diagfmt.PrettyOpts{
			Color:     out.color,
			PathMode:  out.pathMode,
			ShowNotes: out.withNotes,
			ShowFixes: out.suggest,
		}
		first := true
		for _, r := range report.Results {
			if r.Bag == nil || r.Bag.Len() == 0 {
				continue
			}
			if !first {
				fmt.Fprintln(w)
			}
			first = false
			diagfmt.Pretty(w, r.Bag, resultFileSet(r), prettyOpts)
		}
	case "short":
		for _, r := range report.Results {
			if r.Bag == nil || r.Bag.Len() == 0 {
				continue
			}
			output := diag.FormatGoldenDiagnostics(r.Bag.Items(), resultFileSet(r), out.withNotes)
			if output != "" {
				fmt.Fprintln(w, output)
			}
		}
	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         out.pathMode,
			Max:              out.max,
			IncludeNotes:     out.withNotes,
			IncludeFixes:     out.suggest,
		}
		combined := make(map[string]json.RawMessage, len(report.Results))
		for _, r := range report.Results {
			var buf bytes.Buffer
			if err := diagfmt.WriteJSON(&buf, r.Bag, resultFileSet(r), jsonOpts); err != nil {
				return fmt.Errorf("failed to format diagnostics: %w", err)
			}
			combined[r.Path] = json.RawMessage(buf.Bytes())
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(combined); err != nil {
			return fmt.Errorf("failed to encode diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", out.format)
	}
	return nil
}

// resultFileSet never returns nil so the formatters can rely on it.
func resultFileSet(r driver.LintResult) *source.FileSet {
	if r.Snapshot != nil && r.Snapshot.Files != nil {
		return r.Snapshot.Files
	}
	return source.NewFileSet()
}

func printTimings(w io.Writer, timing observ.Report, stages pipeline.Timings) {
	for _, phase := range timing.Phases {
		if phase.Note != "" {
			fmt.Fprintf(w, "%s %.1f ms (%s)\n", phase.Name, phase.DurationMS, phase.Note)
		} else {
			fmt.Fprintf(w, "%s %.1f ms\n", phase.Name, phase.DurationMS)
		}
	}
	for _, stage := range []pipeline.Stage{pipeline.StageLoad, pipeline.StageLint, pipeline.StageReport} {
		if stages.Has(stage) {
			fmt.Fprintf(w, "stage %s %.1f ms\n", stage, toMillis(stages.Duration(stage)))
		}
	}
	fmt.Fprintf(w, "total %.1f ms\n", timing.TotalMS)
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
