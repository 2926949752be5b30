package processor

import (
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
)

// outputName is prefix + stem + extension of the source file.
func outputName(prefix, path string) string {
	return prefix + filepath.Base(path)
}

// writeImage encodes img in the format implied by dest's extension. The data
// goes to a temp file first and is then renamed over dest, so an existing
// file of the same name is replaced.
func writeImage(img image.Image, dest string, quality int) error {
	encode, err := encoderFor(dest, quality)
	if err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), "resizer-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile.Name())

	if err := tmpFile.Chmod(0o644); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := encode(tmpFile, img); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return replaceFile(tmpFile.Name(), dest)
}

type encodeFunc func(w io.Writer, img image.Image) error

// encoderFor picks the encoder for dest's extension. WebP is written
// lossless; everything else goes through imaging.
func encoderFor(dest string, quality int) (encodeFunc, error) {
	if strings.EqualFold(filepath.Ext(dest), ".webp") {
		return func(w io.Writer, img image.Image) error {
			return nativewebp.Encode(w, img, nil)
		}, nil
	}

	format, err := imaging.FormatFromFilename(dest)
	if err != nil {
		return nil, err
	}
	var opts []imaging.EncodeOption
	if quality > 0 {
		opts = append(opts, imaging.JPEGQuality(quality))
	}
	return func(w io.Writer, img image.Image) error {
		return imaging.Encode(w, img, format, opts...)
	}, nil
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
