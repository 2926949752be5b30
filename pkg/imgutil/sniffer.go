package imgutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies a supported image type.
type Kind int

const (
	KindUnknown Kind = iota
	KindJPEG
	KindPNG
	KindBMP
	KindTIFF
	KindWebP
)

func (k Kind) String() string {
	switch k {
	case KindJPEG:
		return "jpeg"
	case KindPNG:
		return "png"
	case KindBMP:
		return "bmp"
	case KindTIFF:
		return "tiff"
	case KindWebP:
		return "webp"
	default:
		return "unknown"
	}
}

var (
	pngSig    = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	jpegSig   = []byte{0xff, 0xd8, 0xff}
	bmpSig    = []byte{0x42, 0x4d}
	tiffSigLE = []byte{0x49, 0x49, 0x2a, 0x00}
	tiffSigBE = []byte{0x4d, 0x4d, 0x00, 0x2a}
	riffSig   = []byte("RIFF")
	webpSig   = []byte("WEBP")
)

// headerLen is the number of leading bytes DetectHeader needs.
const headerLen = 12

var extensions = map[string]Kind{
	".jpg":  KindJPEG,
	".jpeg": KindJPEG,
	".png":  KindPNG,
	".bmp":  KindBMP,
	".tiff": KindTIFF,
	".webp": KindWebP,
}

// KindFromExt maps a file name's extension (case-insensitive) to its Kind.
// Extensions outside the allow-list map to KindUnknown.
func KindFromExt(name string) Kind {
	return extensions[strings.ToLower(filepath.Ext(name))]
}

// Allowed reports whether name carries an allow-listed image extension.
func Allowed(name string) bool {
	return KindFromExt(name) != KindUnknown
}

// DetectHeader inspects the first 12 bytes of a file for known signatures.
func DetectHeader(header []byte) (Kind, error) {
	if len(header) < headerLen {
		return KindUnknown, errors.New("header too short")
	}

	if hasPrefix(header, jpegSig) {
		return KindJPEG, nil
	}
	if hasPrefix(header, pngSig) {
		return KindPNG, nil
	}
	if hasPrefix(header, tiffSigLE) || hasPrefix(header, tiffSigBE) {
		return KindTIFF, nil
	}
	if hasPrefix(header, riffSig) && hasPrefix(header[8:], webpSig) {
		return KindWebP, nil
	}
	if hasPrefix(header, bmpSig) {
		return KindBMP, nil
	}

	return KindUnknown, nil
}

// SniffFile reads the first bytes of a file to determine its type.
func SniffFile(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	return SniffReader(f)
}

// SniffReader reads the first bytes from r and determines its type.
func SniffReader(r io.Reader) (Kind, error) {
	header := make([]byte, headerLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return KindUnknown, err
	}

	return DetectHeader(header)
}

func hasPrefix(buf, prefix []byte) bool {
	if len(buf) < len(prefix) {
		return false
	}
	for i := range prefix {
		if buf[i] != prefix[i] {
			return false
		}
	}
	return true
}
