package presentation

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/azqeurio/sd-to-c-sort/internal/domain"
)

func TestPrintSummaryCounts(t *testing.T) {
	var buf bytes.Buffer
	printer := Printer{Writer: &buf}

	summary := domain.RunSummary{
		Placed:  3,
		Renamed: 1,
		Skipped: 2,
		Elapsed: 2 * time.Second,
	}

	printer.PrintSummary(summary, false)
	output := buf.String()
	if !strings.Contains(output, "Processed 6 files") {
		t.Fatalf("missing total line: %q", output)
	}
	if !strings.Contains(output, "Placed: 3  Renamed: 1  Skipped: 2  Failed: 0") {
		t.Fatalf("missing counts line: %q", output)
	}
	if strings.Contains(output, "not removed") {
		t.Fatalf("not-removed line should only appear when relevant: %q", output)
	}
}

func TestPrintSummaryShowsNotRemoved(t *testing.T) {
	var buf bytes.Buffer
	printer := Printer{Writer: &buf}

	summary := domain.RunSummary{Placed: 1, NotRemoved: 2}
	printer.PrintSummary(summary, false)
	if !strings.Contains(buf.String(), "Copied but original not removed: 2") {
		t.Fatalf("missing not-removed line: %q", buf.String())
	}
}

func TestPrintSummaryTruncatesIssueList(t *testing.T) {
	var buf bytes.Buffer
	printer := Printer{Writer: &buf}

	var summary domain.RunSummary
	for i := 0; i < 25; i++ {
		summary.Record(domain.PlacementResult{
			Source:   domain.FileMeta{SourcePath: fmt.Sprintf("/card/IMG_%04d.JPG", i)},
			DestPath: fmt.Sprintf("/out/x/IMG_%04d.JPG", i),
			Outcome:  domain.OutcomeError,
			Detail:   "disk full",
		})
	}

	printer.PrintSummary(summary, false)
	output := buf.String()
	if got := strings.Count(output, "disk full"); got != maxIssueLines {
		t.Fatalf("expected %d issue lines, got %d", maxIssueLines, got)
	}
	if !strings.Contains(output, "... and 5 more") {
		t.Fatalf("missing truncation line: %q", output)
	}
}

func TestPrintSummaryDryRunBanner(t *testing.T) {
	var buf bytes.Buffer
	printer := Printer{Writer: &buf}

	printer.PrintSummary(domain.RunSummary{}, true)
	if !strings.Contains(buf.String(), "Dry run") {
		t.Fatalf("missing dry run banner: %q", buf.String())
	}
}

func TestPrintSummaryWarningsOnlyWhenVerbose(t *testing.T) {
	summary := domain.RunSummary{Warnings: []string{"no metadata for x.jpg"}}

	var quiet bytes.Buffer
	Printer{Writer: &quiet}.PrintSummary(summary, false)
	if strings.Contains(quiet.String(), "no metadata") {
		t.Fatalf("warnings printed without verbose: %q", quiet.String())
	}

	var verbose bytes.Buffer
	Printer{Writer: &verbose, Verbose: true}.PrintSummary(summary, false)
	if !strings.Contains(verbose.String(), "no metadata for x.jpg") {
		t.Fatalf("warnings missing in verbose mode: %q", verbose.String())
	}
}
