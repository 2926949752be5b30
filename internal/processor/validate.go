package processor

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register WebP with image.Decode

	"github.com/moontasirabtahee/image-resizer-tool/pkg/imgutil"
)

// Validate splits paths into files that can be processed and files that
// cannot, keeping the input order within each group. Decoded images are
// dropped right after the check.
func Validate(paths []string) (valid, invalid []string) {
	for _, path := range paths {
		if err := CheckFile(path); err != nil {
			invalid = append(invalid, path)
			continue
		}
		valid = append(valid, path)
	}
	return valid, invalid
}

// CheckFile returns the reason path would be rejected by Validate, or nil.
func CheckFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return errNotRegular
	}
	if !imgutil.Allowed(path) {
		return errExtension
	}
	if _, err := imaging.Open(path); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
