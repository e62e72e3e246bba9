package presentation

import (
	"fmt"
	"io"
	"time"

	"github.com/azqeurio/sd-to-c-sort/internal/domain"
)

// maxIssueLines bounds how many skip/error entries are printed; the rest is
// summarized as a count.
const maxIssueLines = 20

type Printer struct {
	Writer  io.Writer
	Verbose bool
}

func (p Printer) PrintSummary(summary domain.RunSummary, dryRun bool) {
	if dryRun {
		fmt.Fprintln(p.Writer, "Dry run - no files were written.")
		fmt.Fprintln(p.Writer)
	}

	elapsed := summary.Elapsed
	if seconds := elapsed.Seconds(); seconds > 0 && summary.Total() > 0 {
		fmt.Fprintf(p.Writer, "Processed %d files in %s (%.1f files/s).\n",
			summary.Total(), elapsed.Round(time.Millisecond), float64(summary.Total())/seconds)
	} else {
		fmt.Fprintf(p.Writer, "Processed %d files.\n", summary.Total())
	}

	fmt.Fprintf(p.Writer, "Placed: %d  Renamed: %d  Skipped: %d  Failed: %d\n",
		summary.Placed, summary.Renamed, summary.Skipped, summary.Failed)
	if summary.NotRemoved > 0 {
		fmt.Fprintf(p.Writer, "Copied but original not removed: %d\n", summary.NotRemoved)
	}

	p.printIssues(summary)

	if p.Verbose && len(summary.Warnings) > 0 {
		fmt.Fprintln(p.Writer)
		fmt.Fprintln(p.Writer, "Warnings:")
		for _, warning := range summary.Warnings {
			fmt.Fprintln(p.Writer, "- "+warning)
		}
	}
}

func (p Printer) printIssues(summary domain.RunSummary) {
	if len(summary.Issues) == 0 {
		return
	}

	fmt.Fprintln(p.Writer)
	fmt.Fprintln(p.Writer, "Skipped or failed:")
	shown := len(summary.Issues)
	if shown > maxIssueLines {
		shown = maxIssueLines
	}
	for _, issue := range summary.Issues[:shown] {
		fmt.Fprintln(p.Writer, formatIssue(issue))
	}
	if hidden := len(summary.Issues) - shown + summary.DroppedIssues; hidden > 0 {
		fmt.Fprintf(p.Writer, "... and %d more\n", hidden)
	}
}

func formatIssue(issue domain.PlacementResult) string {
	if issue.DestPath == "" {
		return fmt.Sprintf("- [%s] %s: %s", issue.Outcome, issue.Source.SourcePath, issue.Detail)
	}
	return fmt.Sprintf("- [%s] %s -> %s: %s", issue.Outcome, issue.Source.SourcePath, issue.DestPath, issue.Detail)
}
