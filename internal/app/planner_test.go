package app

import (
	"testing"
	"time"

	"github.com/azqeurio/sd-to-c-sort/internal/domain"
)

func photoMeta(name string, takenAt time.Time, camera, lens string) domain.FileMeta {
	meta := domain.NewFileMeta("/card/"+name, takenAt)
	if camera != "" {
		meta.Camera = camera
	}
	if lens != "" {
		meta.Lens = lens
	}
	return meta
}

func TestDestinationPathGroupsByCamera(t *testing.T) {
	taken := time.Date(2025, 8, 24, 14, 30, 0, 0, time.Local)
	meta := photoMeta("IMG_0001.JPG", taken, "Canon EOS R5", "RF24-70mm F2.8")

	got := DestinationPath(meta, domain.GroupByCamera, false)
	want := "Canon EOS R5/2025/2025-08/2025-08-24/IMG_0001.JPG"
	if got != want {
		t.Fatalf("unexpected path: got %q want %q", got, want)
	}
}

func TestDestinationPathSeparatesRawJpg(t *testing.T) {
	taken := time.Date(2025, 8, 24, 14, 30, 0, 0, time.Local)

	jpg := photoMeta("IMG_0001.JPG", taken, "Canon EOS R5", "")
	got := DestinationPath(jpg, domain.GroupByCamera, true)
	want := "Canon EOS R5/JPG/2025/2025-08/2025-08-24/IMG_0001.JPG"
	if got != want {
		t.Fatalf("unexpected JPG path: got %q want %q", got, want)
	}

	raw := photoMeta("IMG_0001.CR3", taken, "Canon EOS R5", "")
	got = DestinationPath(raw, domain.GroupByCamera, true)
	want = "Canon EOS R5/RAW/2025/2025-08/2025-08-24/IMG_0001.CR3"
	if got != want {
		t.Fatalf("unexpected RAW path: got %q want %q", got, want)
	}
}

func TestDestinationPathOtherKindGetsNoSegment(t *testing.T) {
	taken := time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)
	meta := photoMeta("clip.mp4", taken, "Canon EOS R5", "")

	got := DestinationPath(meta, domain.GroupByCamera, true)
	want := "Canon EOS R5/2024/2024-01/2024-01-02/clip.mp4"
	if got != want {
		t.Fatalf("unexpected path: got %q want %q", got, want)
	}
}

func TestDestinationPathGroupsByLens(t *testing.T) {
	taken := time.Date(2023, 12, 31, 23, 59, 0, 0, time.Local)
	meta := photoMeta("DSC0001.ARW", taken, "SONY ILCE-7M3", "FE 55mm F1.8 ZA")

	got := DestinationPath(meta, domain.GroupByLens, false)
	want := "FE 55mm F1.8 ZA/2023/2023-12/2023-12-31/DSC0001.ARW"
	if got != want {
		t.Fatalf("unexpected path: got %q want %q", got, want)
	}
}

func TestDestinationPathSanitizesGroupLabel(t *testing.T) {
	taken := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	meta := photoMeta("x.jpg", taken, `Weird/Cam:Name*?`, "")

	got := DestinationPath(meta, domain.GroupByCamera, false)
	want := "Weird Cam Name/2024/2024-06/2024-06-01/x.jpg"
	if got != want {
		t.Fatalf("unexpected path: got %q want %q", got, want)
	}
}

func TestDestinationPathMissingMetadataUsesUnknown(t *testing.T) {
	taken := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	meta := domain.NewFileMeta("/card/x.jpg", taken)

	got := DestinationPath(meta, domain.GroupByCamera, false)
	want := "Unknown/2024/2024-06/2024-06-01/x.jpg"
	if got != want {
		t.Fatalf("unexpected path: got %q want %q", got, want)
	}
}

func TestDestinationPathIsDeterministic(t *testing.T) {
	taken := time.Date(2025, 8, 24, 14, 30, 0, 0, time.Local)
	meta := photoMeta("IMG_0001.JPG", taken, "Canon EOS R5", "")

	first := DestinationPath(meta, domain.GroupByCamera, true)
	second := DestinationPath(meta, domain.GroupByCamera, true)
	if first != second {
		t.Fatalf("planner is not deterministic: %q vs %q", first, second)
	}
}
