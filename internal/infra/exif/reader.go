package exif

import (
	"context"
	"os"
	"strings"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"

	"github.com/azqeurio/sd-to-c-sort/internal/app"
)

type Reader struct{}

// Read extracts capture time, camera model and lens model. Missing fields
// come back zero-valued; an error is returned only when no EXIF block could
// be decoded at all.
func (Reader) Read(ctx context.Context, path string) (app.ImageMeta, error) {
	select {
	case <-ctx.Done():
		return app.ImageMeta{}, ctx.Err()
	default:
	}

	file, err := os.Open(path)
	if err != nil {
		return app.ImageMeta{}, err
	}
	defer file.Close()

	x, err := goexif.Decode(file)
	if err != nil {
		return app.ImageMeta{}, err
	}

	var meta app.ImageMeta
	meta.TakenAt = takenAt(x)
	meta.Camera = mergeMakeModel(tagString(x, goexif.Make), tagString(x, goexif.Model))
	meta.Lens = tagString(x, goexif.LensModel)
	return meta, nil
}

func takenAt(x *goexif.Exif) time.Time {
	if tag, err := x.Get(goexif.DateTimeOriginal); err == nil {
		if str, err := tag.StringVal(); err == nil {
			if parsed, err := time.Parse("2006:01:02 15:04:05", strings.TrimSpace(str)); err == nil {
				return parsed
			}
		}
	}
	if parsed, err := x.DateTime(); err == nil {
		return parsed
	}
	return time.Time{}
}

// mergeMakeModel prepends the maker's first token to the model when the
// model string does not already carry it anywhere, case-insensitively.
// "ILCE-7M3" + "SONY" becomes "SONY ILCE-7M3"; "Canon EOS R5" stays as is.
func mergeMakeModel(mk, model string) string {
	if model == "" {
		return ""
	}
	fields := strings.Fields(mk)
	if len(fields) == 0 {
		return model
	}
	maker := fields[0]
	if strings.Contains(strings.ToLower(model), strings.ToLower(maker)) {
		return model
	}
	return maker + " " + model
}

func tagString(x *goexif.Exif, name goexif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	str, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(str)
}
