package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sable/internal/driver"
	"sable/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [<file.sbx|directory>]",
	Short: "Apply available fixes suggested by the lint passes",
	Long: `Run the lint passes and apply the suggested edits to the source
files referenced by the snapshots. Fixes whose target text no longer
matches the snapshot are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("dry-run", false, "report fixes without writing files")
	fixCmd.Flags().StringSlice("allow", nil, "lints to enable in addition to the manifest")
	fixCmd.Flags().StringSlice("deny", nil, "lints to disable in addition to the manifest")
}

func runFix(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	allow, err := cmd.Flags().GetStringSlice("allow")
	if err != nil {
		return fmt.Errorf("failed to get allow flag: %w", err)
	}
	deny, err := cmd.Flags().GetStringSlice("deny")
	if err != nil {
		return fmt.Errorf("failed to get deny flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	opts, err := lintOptions(target, allow, deny)
	if err != nil {
		return err
	}
	opts.MaxDiagnostics = maxDiagnostics

	files, err := snapshotTargets(target)
	if err != nil {
		return err
	}

	report, err := driver.LintFiles(cmd.Context(), files, opts)
	if err != nil {
		return fmt.Errorf("fix: lint failed: %w", err)
	}

	applyOpts := fix.ApplyOptions{DryRun: dryRun}
	total := &fix.ApplyResult{}
	for _, r := range report.Results {
		if r.Bag == nil || r.Bag.Len() == 0 {
			continue
		}
		res, applyErr := fix.Apply(resultFileSet(r), r.Bag.Items(), applyOpts)
		if applyErr != nil {
			return fmt.Errorf("fix: %w", applyErr)
		}
		total.Applied = append(total.Applied, res.Applied...)
		total.Skipped = append(total.Skipped, res.Skipped...)
		total.Changes = append(total.Changes, res.Changes...)
	}

	printApplyResult(total, dryRun)
	return nil
}

func printApplyResult(res *fix.ApplyResult, dryRun bool) {
	if len(res.Applied) > 0 {
		verb := "Applied"
		if dryRun {
			verb = "Would apply"
		}
		fmt.Fprintf(os.Stdout, "%s %d fix(es):\n", verb, len(res.Applied))
		for _, item := range res.Applied {
			location := item.Path
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(os.Stdout, "  %s [%s] at %s (%d edits)\n",
				item.Title, item.Code.ID(), location, item.EditCount)
		}
	}

	if len(res.Changes) > 0 && !dryRun {
		fmt.Fprintln(os.Stdout, "Updated files:")
		for _, change := range res.Changes {
			fmt.Fprintf(os.Stdout, "  %s (%d edits)\n", change.Path, change.EditCount)
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintln(os.Stdout, "Skipped fixes:")
		for _, skip := range res.Skipped {
			title := skip.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Fprintf(os.Stdout, "  %s: %s\n", title, skip.Reason)
		}
	}

	if len(res.Applied) == 0 {
		fmt.Fprintln(os.Stdout, "No applicable fixes found.")
	}
}
