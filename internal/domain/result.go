package domain

import "time"

// Outcome is the terminal state of one file's placement.
type Outcome string

const (
	OutcomePlaced     Outcome = "placed"
	OutcomeRenamed    Outcome = "renamed"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeError      Outcome = "error"
	OutcomeNotRemoved Outcome = "copied_not_removed"
)

// PlacementResult associates a source file with its attempted destination
// and the outcome. Exactly one is produced per discovered file.
type PlacementResult struct {
	Source   FileMeta
	DestPath string
	Outcome  Outcome
	Detail   string
}

// Issue reports whether the result belongs in the summary's issue list.
// Plain placements and renames are routine; everything else is worth showing.
func (r PlacementResult) Issue() bool {
	switch r.Outcome {
	case OutcomeSkipped, OutcomeError, OutcomeNotRemoved:
		return true
	default:
		return false
	}
}

// MaxIssues bounds the issue list kept in a RunSummary. Overflow is counted,
// not stored.
const MaxIssues = 512

// RunSummary aggregates PlacementResults over one run.
type RunSummary struct {
	Placed     int
	Renamed    int
	Skipped    int
	Failed     int
	NotRemoved int

	Issues        []PlacementResult
	DroppedIssues int
	Warnings      []string
	Elapsed       time.Duration
}

func (s *RunSummary) Record(r PlacementResult) {
	switch r.Outcome {
	case OutcomePlaced:
		s.Placed++
	case OutcomeRenamed:
		s.Renamed++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeError:
		s.Failed++
	case OutcomeNotRemoved:
		s.NotRemoved++
	}
	if !r.Issue() {
		return
	}
	if len(s.Issues) >= MaxIssues {
		s.DroppedIssues++
		return
	}
	s.Issues = append(s.Issues, r)
}

func (s *RunSummary) Warn(msg string) {
	s.Warnings = append(s.Warnings, msg)
}

// Total is the number of files that reached a terminal outcome.
func (s *RunSummary) Total() int {
	return s.Placed + s.Renamed + s.Skipped + s.Failed + s.NotRemoved
}
