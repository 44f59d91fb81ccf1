package asset

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/cardfan/internal/card"
)

func writePNG(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// fullDir builds an asset directory with every face and a back
func fullDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, ref := range FaceRefs() {
		writePNG(t, filepath.Join(dir, ref+".png"), color.White)
	}
	writePNG(t, filepath.Join(dir, "back.png"), color.RGBA{0, 0, 255, 255})
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte(`name = "Test Faces"`), 0644))
	return dir
}

func TestRefs_Resolve(t *testing.T) {
	c := card.Card{Suit: card.Hearts, Rank: card.Queen}

	assert.Equal(t, "hearts_12", Refs{}.Resolve(c, true))
	assert.Equal(t, BackRef, Refs{}.Resolve(c, false))
}

func TestFaceRefs(t *testing.T) {
	refs := FaceRefs()
	assert.Len(t, refs, card.PoolSize)
	assert.Equal(t, "clubs_1", refs[0])
	assert.Equal(t, "spades_13", refs[51])
}

func TestDir_Find(t *testing.T) {
	path := fullDir(t)
	d, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, "Test Faces", d.Name())

	p, err := d.Find("hearts_12")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(path, "hearts_12.png"), p)

	_, err = d.Find("stars_3")
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestDir_ManifestBack(t *testing.T) {
	path := t.TempDir()
	writePNG(t, filepath.Join(path, "reverse.png"), color.Black)
	require.NoError(t, os.WriteFile(filepath.Join(path, ManifestFile), []byte(`back = "reverse.png"`), 0644))

	d, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(path), d.Name())

	p, err := d.Find(BackRef)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(path, "reverse.png"), p)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	path := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(path, ManifestFile), []byte(`name = `), 0644))
	_, err = Open(path)
	assert.Error(t, err)
}

func TestValidator_Valid(t *testing.T) {
	d, err := Open(fullDir(t))
	require.NoError(t, err)

	results, err := NewValidator(d).Validate()
	require.NoError(t, err)
	assert.Empty(t, results.Errors)
	assert.Empty(t, results.Warnings)
}

func TestValidator_Problems(t *testing.T) {
	path := fullDir(t)
	require.NoError(t, os.Remove(filepath.Join(path, "spades_1.png")))
	require.NoError(t, os.Remove(filepath.Join(path, "back.png")))
	require.NoError(t, os.Remove(filepath.Join(path, ManifestFile)))
	require.NoError(t, os.WriteFile(filepath.Join(path, "hearts_2.png"), []byte("not an image"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(path, "notes.txt"), []byte("hi"), 0644))

	d, err := Open(path)
	require.NoError(t, err)

	results, err := NewValidator(d).Validate()
	require.NoError(t, err)

	joined := strings.Join(results.Errors, "\n")
	assert.Contains(t, joined, "missing face images: spades_1")
	assert.Contains(t, joined, "card back image not found")
	assert.Contains(t, joined, "cannot decode hearts_2")

	assert.Contains(t, results.Warnings, ManifestFile+" not found")
	assert.Contains(t, results.Warnings, "unrecognised files: notes.txt")
}

func TestImageToAnsi(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	writePNG(t, path, color.RGBA{255, 0, 0, 255})

	img, err := LoadImage(path)
	require.NoError(t, err)

	art := ImageToAnsi(img, 6, 3, true)
	lines := strings.Split(strings.TrimSuffix(art, "\n"), "\n")
	assert.Len(t, lines, 3)
	for _, line := range lines {
		assert.Equal(t, strings.Repeat("▀", 6), StripAnsi(line))
	}
	assert.Contains(t, art, "\x1b[38;2;255;0;0m")

	plain := ImageToAnsi(img, 2, 1, false)
	assert.Equal(t, "▀▀\n", plain)
}

func TestLoadImage_Errors(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))
	_, err = LoadImage(path)
	assert.Error(t, err)
}
