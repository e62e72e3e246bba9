package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// FileKind classifies a source file by extension.
type FileKind string

const (
	KindRAW   FileKind = "raw"
	KindJPG   FileKind = "jpg"
	KindOther FileKind = "other"
)

// Segment returns the folder segment used when RAW/JPG separation is on.
// Other-kind files carry no segment.
func (k FileKind) Segment() string {
	switch k {
	case KindRAW:
		return "RAW"
	case KindJPG:
		return "JPG"
	default:
		return ""
	}
}

// FileMeta describes one discovered source file together with the metadata
// extracted for it. TakenAt is never zero: when EXIF has no capture time the
// file's modification time is used and TimeFallback is set.
type FileMeta struct {
	SourcePath   string
	Name         string
	Ext          string
	Kind         FileKind
	TakenAt      time.Time
	TimeFallback bool
	Camera       string
	Lens         string
}

func NewFileMeta(sourcePath string, takenAt time.Time) FileMeta {
	name := filepath.Base(sourcePath)
	ext := strings.ToLower(filepath.Ext(name))

	return FileMeta{
		SourcePath: sourcePath,
		Name:       name,
		Ext:        ext,
		Kind:       KindOf(ext),
		TakenAt:    takenAt,
		Camera:     "Unknown",
		Lens:       "Unknown",
	}
}

func KindOf(ext string) FileKind {
	switch strings.ToLower(ext) {
	case ".arw", ".cr2", ".cr3", ".nef", ".orf", ".rw2", ".raf", ".dng", ".srw", ".pef", ".tif", ".tiff":
		return KindRAW
	case ".jpg", ".jpeg", ".heic", ".heif", ".png":
		return KindJPG
	default:
		return KindOther
	}
}

// Sanitize makes a metadata string safe for use as a folder name. Characters
// outside the allow-list become spaces, whitespace runs collapse, the result
// is capped at 120 characters, and an empty result becomes "Unknown".
func Sanitize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Unknown"
	}

	var b strings.Builder
	for _, ch := range name {
		if isSafeRune(ch) {
			b.WriteRune(ch)
		} else {
			b.WriteRune(' ')
		}
	}
	s := strings.Join(strings.Fields(b.String()), " ")
	if len(s) > 120 {
		s = strings.TrimSpace(s[:120])
	}
	if s == "" {
		return "Unknown"
	}
	return s
}

func isSafeRune(ch rune) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return true
	}
	return strings.ContainsRune(" ._-()+[]#", ch)
}
