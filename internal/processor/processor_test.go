package processor

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moontasirabtahee/image-resizer-tool/internal/filter"
	"github.com/moontasirabtahee/image-resizer-tool/internal/sizing"
)

func TestValidate_StablePartition(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	a := writePNG(t, dir, "a.png", 8, 8)
	missing := filepath.Join(dir, "missing.png")
	wrongExt := writePNG(t, dir, "b.txt", 8, 8)
	corrupt := writeCorrupt(t, dir, "corrupt.jpg")
	folder := filepath.Join(dir, "folder.png")
	require.NoError(t, os.Mkdir(folder, 0o755))
	c := writeJPEG(t, dir, "C.JPG", 8, 8)
	upper := writePNG(t, dir, "d.PNG", 4, 4)

	inputs := []string{a, missing, wrongExt, corrupt, folder, c, upper}
	valid, invalid := Validate(inputs)

	assert.Equal(t, []string{a, c, upper}, valid)
	assert.Equal(t, []string{missing, wrongExt, corrupt, folder}, invalid)
	assert.ElementsMatch(t, inputs, append(append([]string{}, valid...), invalid...))

	assert.ErrorIs(t, CheckFile(folder), errNotRegular)
	assert.ErrorIs(t, CheckFile(wrongExt), errExtension)
	assert.ErrorIs(t, CheckFile(missing), os.ErrNotExist)
}

func TestRun_MixedBatch(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	files := []string{
		writePNG(t, dir, "one.png", 40, 20),
		writeCorrupt(t, dir, "broken.png"),
		writeJPEG(t, dir, "two.jpg", 30, 30),
	}

	var calls []progressCall
	engine := NewEngine(Options{OutputDir: out})
	outcome, err := engine.Run(context.Background(), files, sizing.Percentage{P: 50}, nil, recorder(&calls))
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Succeeded)
	assert.Equal(t, 2, outcome.Total)
	assert.Equal(t, []string{"broken.png"}, outcome.FailedFiles)
	assert.Equal(t, []progressCall{{1, 2, "one.png"}, {2, 2, "two.jpg"}}, calls)

	assert.Equal(t, image.Pt(20, 10), decodedSize(t, filepath.Join(out, "one.png")))
	assert.Equal(t, image.Pt(15, 15), decodedSize(t, filepath.Join(out, "two.jpg")))
	assert.Equal(t, StateCompleted, engine.Status().State)
}

func TestRun_WebPRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	src := writeWebP(t, dir, "pic.webp", 40, 20)
	valid, invalid := Validate([]string{src})
	require.Equal(t, []string{src}, valid)
	require.Empty(t, invalid)

	outcome, err := NewEngine(Options{OutputDir: out}).Run(context.Background(), []string{src}, sizing.Percentage{P: 50}, filter.Spec{filter.Flip: filter.On()}, nil)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Succeeded: 1, Total: 1, FailedFiles: []string{}}, outcome)

	dest := filepath.Join(out, "pic.webp")
	assert.Equal(t, image.Pt(20, 10), decodedSize(t, dest))
	assert.NoError(t, CheckFile(dest))
}

func TestRun_ProcessingFailureDoesNotStopBatch(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	files := []string{
		writePNG(t, dir, "a.png", 10, 10),
		writePNG(t, dir, "b.png", 10, 10),
		filepath.Join(dir, "notes.txt"),
		writePNG(t, dir, "c.png", 10, 10),
		writeJPEG(t, dir, "d.jpg", 10, 10),
	}
	// A non-empty directory where an output should go makes the final
	// rename fail after the file has been decoded, resized and encoded.
	blockOutput(t, out, "b.png")
	blockOutput(t, out, "d.jpg")

	var calls []progressCall
	outcome, err := NewEngine(Options{OutputDir: out}).Run(context.Background(), files, sizing.Percentage{P: 50}, nil, recorder(&calls))
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Succeeded)
	assert.Equal(t, 4, outcome.Total)
	assert.Equal(t, []string{"b.png", "d.jpg", "notes.txt"}, outcome.FailedFiles)
	assert.Equal(t, []progressCall{{1, 4, "a.png"}, {2, 4, "b.png"}, {3, 4, "c.png"}, {4, 4, "d.jpg"}}, calls)

	assert.Equal(t, image.Pt(5, 5), decodedSize(t, filepath.Join(out, "a.png")))
	assert.Equal(t, image.Pt(5, 5), decodedSize(t, filepath.Join(out, "c.png")))
	assert.DirExists(t, filepath.Join(out, "b.png"))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 4, "no temp files left behind")
}

func TestRun_FixedSizeWithBrightness(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "out")

	src := writePNG(t, dir, "photo.png", 64, 48)
	spec := filter.Spec{filter.Brightness: filter.WithValue(30)}

	outcome, err := NewEngine(Options{OutputDir: out}).Run(context.Background(), []string{src}, sizing.FixedWidthHeight{W: 100, H: 50}, spec, nil)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Succeeded: 1, Total: 1, FailedFiles: []string{}}, outcome)
	assert.Equal(t, image.Pt(100, 50), decodedSize(t, filepath.Join(out, "photo.png")))
}

func TestRun_EmptyInput(t *testing.T) {
	t.Parallel()

	outcome, err := NewEngine(Options{OutputDir: t.TempDir()}).Run(context.Background(), nil, sizing.Percentage{P: 50}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Succeeded)
	assert.Equal(t, 0, outcome.Total)
	assert.Empty(t, outcome.FailedFiles)
}

func TestRun_NoValidFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	files := []string{writeCorrupt(t, dir, "x.png"), filepath.Join(dir, "y.gif")}
	called := false
	outcome, err := NewEngine(Options{OutputDir: filepath.Join(dir, "out")}).Run(context.Background(), files, sizing.FixedWidth{W: 10}, nil,
		func(int, int, string) { called = true })
	require.NoError(t, err)
	assert.Equal(t, Outcome{FailedFiles: []string{"x.png", "y.gif"}}, outcome)
	assert.False(t, called)
}

func TestRun_ConfigurationErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := writePNG(t, dir, "a.png", 4, 4)
	out := filepath.Join(dir, "out")

	tests := []struct {
		name   string
		opts   Options
		policy sizing.Policy
		spec   filter.Spec
		target error
	}{
		{"no policy", Options{OutputDir: out}, nil, nil, sizing.ErrNoPolicy},
		{"bad policy", Options{OutputDir: out}, sizing.Percentage{P: -1}, nil, sizing.ErrInvalidPolicy},
		{"bad filter", Options{OutputDir: out}, sizing.Percentage{P: 10}, filter.Spec{filter.Contrast: filter.WithValue(-1)}, ErrConfiguration},
		{"no output", Options{}, sizing.Percentage{P: 10}, nil, ErrConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			_, err := NewEngine(tt.opts).Run(context.Background(), []string{src}, tt.policy, tt.spec, func(int, int, string) { called = true })
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.ErrorIs(t, err, tt.target)
			assert.False(t, called)
			assert.NoDirExists(t, out, "nothing is touched before the configuration is accepted")
		})
	}
}

func TestRun_StopBeforeRun(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	files := []string{
		writePNG(t, dir, "a.png", 10, 10),
		writePNG(t, dir, "b.png", 10, 10),
		writeCorrupt(t, dir, "c.png"),
	}

	engine := NewEngine(Options{OutputDir: out})
	engine.Stop()
	engine.Stop()

	var calls []progressCall
	outcome, err := engine.Run(context.Background(), files, sizing.Percentage{P: 50}, nil, recorder(&calls))
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Succeeded)
	assert.Equal(t, 2, outcome.Total)
	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, outcome.FailedFiles)
	assert.Len(t, calls, 2, "progress still reported for every valid file")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_StopMidBatch(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	files := []string{
		writePNG(t, dir, "a.png", 10, 10),
		writePNG(t, dir, "b.png", 10, 10),
		writePNG(t, dir, "c.png", 10, 10),
	}

	engine := NewEngine(Options{OutputDir: out})
	var calls []progressCall
	outcome, err := engine.Run(context.Background(), files, sizing.Percentage{P: 50}, filter.Spec{filter.Grayscale: filter.On()},
		func(done, total int, name string) {
			calls = append(calls, progressCall{done, total, name})
			if done == 1 {
				engine.Stop()
			}
		})
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Succeeded)
	assert.Equal(t, []string{"b.png", "c.png"}, outcome.FailedFiles)
	assert.Equal(t, outcome.Total, outcome.Succeeded+len(outcome.FailedFiles))
	assert.Len(t, calls, 3)
	assert.FileExists(t, filepath.Join(out, "a.png"))
	assert.NoFileExists(t, filepath.Join(out, "b.png"))
	assert.NoFileExists(t, filepath.Join(out, "c.png"))
}

func TestRun_ContextCancel(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine(Options{OutputDir: filepath.Join(dir, "out")})
	outcome, err := engine.Run(ctx, []string{writePNG(t, dir, "a.png", 4, 4)}, sizing.Percentage{P: 100}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Succeeded)
	assert.Equal(t, []string{"a.png"}, outcome.FailedFiles)
	assert.True(t, engine.Stopped())
}

func TestRun_PrefixAndCollision(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	first := writePNG(t, filepath.Join(dir, "first"), "same.png", 20, 20)
	second := writePNG(t, filepath.Join(dir, "second"), "same.png", 40, 10)

	outcome, err := NewEngine(Options{OutputDir: out, Prefix: "small_"}).Run(context.Background(), []string{first, second}, sizing.FixedHeight{H: 5}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Succeeded)
	assert.Empty(t, outcome.FailedFiles)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, "small_same.png", entries[0].Name())
	assert.Equal(t, image.Pt(20, 5), decodedSize(t, filepath.Join(out, "small_same.png")), "last write wins")
}

func TestInspect(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	src := writePNG(t, dir, "wide.png", 300, 100)
	plan := Inspect(src, sizing.FixedWidth{W: 150}, Options{OutputDir: "out", Prefix: "p_"})
	require.NoError(t, plan.Err)
	assert.Equal(t, "wide.png", plan.Name)
	assert.Equal(t, "png", plan.Kind.String())
	assert.Equal(t, image.Pt(300, 100), plan.Size)
	assert.Equal(t, image.Pt(150, 50), plan.Target)
	assert.Equal(t, filepath.Join("out", "p_wide.png"), plan.Output)

	webp := Inspect(writeWebP(t, dir, "tall.webp", 20, 60), sizing.Percentage{P: 50}, Options{OutputDir: "out"})
	require.NoError(t, webp.Err)
	assert.Equal(t, "webp", webp.Kind.String())
	assert.Equal(t, image.Pt(10, 30), webp.Target)

	bad := Inspect(writeCorrupt(t, dir, "bad.jpg"), sizing.FixedWidth{W: 150}, Options{})
	assert.Error(t, bad.Err)
}

type progressCall struct {
	done, total int
	name        string
}

func recorder(calls *[]progressCall) ProgressFunc {
	return func(done, total int, name string) {
		*calls = append(*calls, progressCall{done, total, name})
	}
}

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 11), B: 90, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, testImage(w, h)))
	return path
}

func writeJPEG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, testImage(w, h), nil))
	return path
}

func writeWebP(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, nativewebp.Encode(f, testImage(w, h), nil))
	return path
}

func blockOutput(t *testing.T, out, name string) {
	t.Helper()
	blocker := filepath.Join(out, name)
	require.NoError(t, os.MkdirAll(blocker, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(blocker, "keep"), nil, 0o644))
}

func writeCorrupt(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nnot really an image"), 0o644))
	return path
}

func decodedSize(t *testing.T, path string) image.Point {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return image.Pt(cfg.Width, cfg.Height)
}

func TestChannelProgress_NeverBlocks(t *testing.T) {
	t.Parallel()

	updates := make(chan ProgressUpdate, 1)
	progress := ChannelProgress(updates)
	progress(1, 3, "a.png")
	progress(2, 3, "b.png")
	progress(3, 3, "c.png")

	require.Len(t, updates, 1)
	assert.Equal(t, ProgressUpdate{Completed: 1, Total: 3, Name: "a.png"}, <-updates)
}
