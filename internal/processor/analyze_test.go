package processor

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeExif(t *testing.T) {
	t.Parallel()
	src := filepath.Join(t.TempDir(), "sample.jpg")
	require.NoError(t, buildJPEGWithExif(src))

	file, err := os.Open(src)
	require.NoError(t, err)
	defer file.Close()

	analysis, err := analyzeExif(file)
	require.NoError(t, err)
	assert.Equal(t, "TestCam", analysis.Camera)
	assert.Equal(t, "2024:01:02 03:04:05", analysis.Taken)
	assert.Zero(t, analysis.Orientation)
}

func TestAnalyzeExif_NoExif(t *testing.T) {
	t.Parallel()
	src := writeJPEG(t, t.TempDir(), "plain.jpg", 4, 4)

	file, err := os.Open(src)
	require.NoError(t, err)
	defer file.Close()

	analysis, err := analyzeExif(file)
	require.NoError(t, err)
	assert.Equal(t, ExifAnalysis{}, analysis)
}

func buildJPEGWithExif(path string) error {
	exifData := buildExifTIFF()
	exif := append([]byte("Exif\x00\x00"), exifData...)

	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xd8})
	buf.Write([]byte{0xff, 0xe1})
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(exif)+2))
	buf.Write(exif)
	buf.Write([]byte{0xff, 0xd9})

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// buildExifTIFF returns a little-endian IFD0 with Model "TestCam" and
// DateTime "2024:01:02 03:04:05".
func buildExifTIFF() []byte {
	var tiff bytes.Buffer
	tiff.Write([]byte{0x49, 0x49, 0x2a, 0x00})
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0110))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(38))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0132))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(20))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(46))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(0))
	tiff.Write([]byte("TestCam\x00"))
	tiff.Write([]byte("2024:01:02 03:04:05\x00"))
	return tiff.Bytes()
}
