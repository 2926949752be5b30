package processor

import (
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/moontasirabtahee/image-resizer-tool/internal/sizing"
	"github.com/moontasirabtahee/image-resizer-tool/pkg/imgutil"
)

type ExifAnalysis struct {
	Camera      string
	Taken       string
	Orientation int
}

// Plan describes what a batch would do with one file.
type Plan struct {
	Path     string
	Name     string
	Kind     imgutil.Kind
	Err      error
	Size     image.Point
	Target   image.Point
	Output   string
	Metadata ExifAnalysis
}

// Inspect reports how path would be handled under policy without writing
// anything. Plan.Err is set when the file would be rejected.
func Inspect(path string, policy sizing.Policy, opts Options) Plan {
	plan := Plan{
		Path:   path,
		Name:   filepath.Base(path),
		Output: filepath.Join(opts.OutputDir, outputName(opts.Prefix, path)),
	}

	if err := CheckFile(path); err != nil {
		plan.Err = err
		return plan
	}

	kind, err := imgutil.SniffFile(path)
	if err != nil {
		plan.Err = err
		return plan
	}
	plan.Kind = kind

	file, err := os.Open(path)
	if err != nil {
		plan.Err = err
		return plan
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		plan.Err = err
		return plan
	}
	plan.Size = image.Pt(cfg.Width, cfg.Height)

	if plan.Kind == imgutil.KindJPEG || plan.Kind == imgutil.KindTIFF {
		if analysis, err := analyzeExif(file); err == nil {
			plan.Metadata = analysis
		}
	}
	// Orientations 5-8 are transposed; decoding applies them.
	if plan.Metadata.Orientation >= 5 && plan.Metadata.Orientation <= 8 {
		plan.Size = image.Pt(plan.Size.Y, plan.Size.X)
	}

	if plan.Target, err = sizing.Resolve(plan.Size, policy); err != nil {
		plan.Err = err
	}
	return plan
}

func analyzeExif(rs io.ReadSeeker) (ExifAnalysis, error) {
	analysis := ExifAnalysis{}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return analysis, err
	}

	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(rs, nil, true)
	if err != nil {
		if errorsIsNoExif(err) {
			return analysis, nil
		}
		return analysis, err
	}

	var make, model, taken, stamped string
	for _, tag := range tags {
		switch tag.TagName {
		case "Make":
			make = strings.TrimSpace(tag.FormattedFirst)
		case "Model":
			model = strings.TrimSpace(tag.FormattedFirst)
		case "DateTimeOriginal":
			taken = tag.FormattedFirst
		case "DateTime":
			stamped = tag.FormattedFirst
		case "Orientation":
			if v, ok := tag.Value.([]uint16); ok && len(v) > 0 {
				analysis.Orientation = int(v[0])
			}
		}
	}

	analysis.Camera = strings.TrimSpace(make + " " + model)
	analysis.Taken = taken
	if analysis.Taken == "" {
		analysis.Taken = stamped
	}
	return analysis, nil
}

func errorsIsNoExif(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}
