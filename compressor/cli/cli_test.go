package cli

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imageCompressor/compressor/archive"
	"imageCompressor/compressor/batch"
	"imageCompressor/compressor/models"
	"imageCompressor/compressor/results"
)

func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 7), uint8(y * 11), 90, 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func sourceDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 40, 20)
	writePNG(t, filepath.Join(dir, "b.png"), 10, 30)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0644))
	return dir
}

func TestCompress_SavesFiles(t *testing.T) {
	t.Chdir(t.TempDir())
	src := sourceDir(t)
	out := filepath.Join(t.TempDir(), "out")

	stdout, stderr, err := execute(t, "compress", "--no-tui",
		"--max-width", "10", "--max-height", "10", "--format", "png", "-o", out, src)
	require.NoError(t, err)

	assert.Contains(t, stderr, "ignored notes.txt")
	assert.Contains(t, stdout, "a-10x5.png")
	assert.Contains(t, stdout, "b-3x10.png")
	assert.Contains(t, stdout, "Saved 2 files to "+out)

	for _, name := range []string{"a-10x5.png", "b-3x10.png"} {
		f, err := os.Open(filepath.Join(out, name))
		require.NoError(t, err)
		cfg, err := png.DecodeConfig(f)
		f.Close()
		require.NoError(t, err)
		assert.LessOrEqual(t, cfg.Width, 10)
		assert.LessOrEqual(t, cfg.Height, 10)
	}
}

func TestCompress_WritesArchive(t *testing.T) {
	t.Chdir(t.TempDir())
	src := sourceDir(t)
	out := t.TempDir()

	_, _, err := execute(t, "compress", "--no-tui", "--preset", "instagram", "--zip", "-o", out, src)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(out, "compressed-*.zip"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	zr, err := zip.OpenReader(matches[0])
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"images/a-40x20.jpg", "images/b-10x30.jpg", "manifest.yaml"}, names)
}

func TestCompress_FieldFlagsOverridePreset(t *testing.T) {
	t.Chdir(t.TempDir())
	src := t.TempDir()
	writePNG(t, filepath.Join(src, "a.png"), 4000, 100)
	out := t.TempDir()

	stdout, _, err := execute(t, "compress", "--no-tui", "--preset", "instagram",
		"--max-width", "200", "--format", "png", "-o", out, src)
	require.NoError(t, err)

	assert.Contains(t, stdout, "a-200x5.png")
	assert.FileExists(t, filepath.Join(out, "a-200x5.png"))
}

func TestWriteArchive_RemovesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compressed-1.zip")

	err := writeArchive(path, archive.Archive{})
	assert.ErrorIs(t, err, archive.ErrNoResults)
	assert.NoFileExists(t, path)
}

func TestCompress_NoImages(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("text"), 0644))

	_, _, err := execute(t, "compress", "--no-tui", "-o", t.TempDir(), dir)
	assert.ErrorIs(t, err, errNoImages)
}

func TestCompress_InvalidCustomConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := execute(t, "compress", "--no-tui", "--quality", "2", "-o", t.TempDir(), sourceDir(t))
	assert.ErrorIs(t, err, models.ErrInvalidConfig)
}

func TestCompress_RequiresArgs(t *testing.T) {
	_, _, err := execute(t, "compress")
	assert.Error(t, err)
}

func TestPresetsCmd(t *testing.T) {
	stdout, _, err := execute(t, "presets")
	require.NoError(t, err)

	for _, want := range []string{"instagram", "1080x1350", "whatsapp", "shopify", "website", "1600x900", "78%", "custom"} {
		assert.Contains(t, stdout, want)
	}
}

func TestCompress_HelpListsFormats(t *testing.T) {
	stdout, _, err := execute(t, "compress", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "output format: webp, jpeg, png")
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{500, "500 B"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in), "formatBytes(%d)", tt.in)
	}
}

func TestPrintReport(t *testing.T) {
	rs := []models.TransformResult{
		{Name: "a-10x5.png", OriginalSize: 2048, NewSize: 1024},
	}
	summary := &batch.Summary{
		Failures: []batch.Failure{{Name: "broken.png", Err: assert.AnError}},
		Canceled: true,
		Progress: models.BatchProgress{Total: 3, Completed: 2},
	}

	var buf bytes.Buffer
	printReport(&buf, summary, rs, results.Aggregate(rs))
	out := buf.String()

	assert.Contains(t, out, "a-10x5.png  1.0 KiB (before 2.0 KiB) -50%")
	assert.Contains(t, out, "skipped broken.png")
	assert.Contains(t, out, "canceled after 2 of 3 images")
	assert.Contains(t, out, "Total saved: 1.0 KiB (from 2.0 KiB to 1.0 KiB)")
}
