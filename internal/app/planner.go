package app

import (
	"path/filepath"

	"github.com/azqeurio/sd-to-c-sort/internal/domain"
)

// GroupLabel returns the sanitized top-level folder name for a file under
// the given grouping mode.
func GroupLabel(meta domain.FileMeta, groupBy domain.GroupMode) string {
	switch groupBy {
	case domain.GroupByLens:
		return domain.Sanitize(meta.Lens)
	default:
		return domain.Sanitize(meta.Camera)
	}
}

// DestinationPath computes the destination path relative to the root:
// <group>/[RAW|JPG/]<YYYY>/<YYYY-MM>/<YYYY-MM-DD>/<filename>.
// It is a pure function of its inputs; identical metadata and settings
// always yield the identical path.
func DestinationPath(meta domain.FileMeta, groupBy domain.GroupMode, separateRawJpg bool) string {
	segments := []string{GroupLabel(meta, groupBy)}

	if separateRawJpg {
		if kind := meta.Kind.Segment(); kind != "" {
			segments = append(segments, kind)
		}
	}

	segments = append(segments,
		meta.TakenAt.Format("2006"),
		meta.TakenAt.Format("2006-01"),
		meta.TakenAt.Format("2006-01-02"),
		meta.Name,
	)

	return filepath.Join(segments...)
}
