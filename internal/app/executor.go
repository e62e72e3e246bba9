package app

import (
	"path/filepath"

	"github.com/azqeurio/sd-to-c-sort/internal/domain"
)

// Executor performs a single copy or move. I/O failures come back as the
// result's outcome, never as a run-aborting error; the caller keeps going
// with the next file.
type Executor struct {
	FS     FileSystem
	Mode   domain.TransferMode
	DryRun bool
}

func (e *Executor) Transfer(meta domain.FileMeta, dest string, outcome domain.Outcome, detail string) domain.PlacementResult {
	result := domain.PlacementResult{
		Source:   meta,
		DestPath: dest,
		Outcome:  outcome,
		Detail:   detail,
	}

	if e.FS == nil {
		result.Outcome = domain.OutcomeError
		result.Detail = "executor requires FS"
		return result
	}

	if e.DryRun {
		return result
	}

	if err := e.FS.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		result.Outcome = domain.OutcomeError
		result.Detail = err.Error()
		return result
	}

	if err := e.FS.CopyFile(meta.SourcePath, dest); err != nil {
		result.Outcome = domain.OutcomeError
		result.Detail = err.Error()
		return result
	}

	if e.Mode == domain.ModeMove {
		if err := e.FS.Remove(meta.SourcePath); err != nil {
			// The copy succeeded, so this is not data loss, but it must not
			// pass for a clean move either.
			result.Outcome = domain.OutcomeNotRemoved
			result.Detail = "copied but original not removed: " + err.Error()
			return result
		}
	}

	return result
}
