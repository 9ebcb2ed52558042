package importer

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, imaging.Save(img, path))
	return path
}

func TestLoadImage_Formats(t *testing.T) {
	cases := []struct {
		file   string
		format string
	}{
		{"a.png", "png"},
		{"a.jpg", "jpeg"},
		{"a.gif", "gif"},
		{"a.bmp", "bmp"},
		{"a.tiff", "tiff"},
	}
	for _, tc := range cases {
		t.Run(tc.file, func(t *testing.T) {
			path := writeImage(t, tc.file, 37, 21)
			bmp, err := LoadImage(path)
			require.NoError(t, err)
			assert.Equal(t, tc.format, bmp.Format)
			assert.Equal(t, 37, bmp.Width())
			assert.Equal(t, 21, bmp.Height())
			assert.Equal(t, path, bmp.Path)
			assert.True(t, bmp.Loaded())
		})
	}
}

func TestLoadImage_MissingFile(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestDecodeImage_NotAnImage(t *testing.T) {
	_, err := DecodeImage(bytes.NewReader([]byte("definitely not pixels")), "x.png")
	assert.ErrorContains(t, err, "cannot decode image header")
}

func TestDecodeImage_RejectsOversizedHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	data := buf.Bytes()
	// Patch the IHDR width to 70000 and fix up the chunk CRC.
	binary.BigEndian.PutUint32(data[16:20], 70000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

	_, err := DecodeImage(bytes.NewReader(data), "huge.png")
	assert.ErrorContains(t, err, "exceeds limit")
}

func TestValidateBounds(t *testing.T) {
	assert.NoError(t, validateBounds(1920, 1080))
	assert.Error(t, validateBounds(0, 10))
	assert.Error(t, validateBounds(70000, 10))
	assert.Error(t, validateBounds(60000, 60000))
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("photo.JPG"))
	assert.True(t, IsSupported("/tmp/scan.tif"))
	assert.False(t, IsSupported("notes.txt"))
	assert.False(t, IsSupported("noext"))
}

func TestThumbnail(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 400, 200))

	small := Thumbnail(img, 100, 100)
	assert.Equal(t, 100, small.Bounds().Dx())
	assert.Equal(t, 50, small.Bounds().Dy())

	same := Thumbnail(img, 1000, 1000)
	assert.Same(t, img, same.(*image.NRGBA))
}

func TestLoadImage_ReadsWholeFile(t *testing.T) {
	path := writeImage(t, "b.png", 5, 5)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	bmp, err := LoadImage(path)
	require.NoError(t, err)
	assert.NotEmpty(t, bmp.ID)
}
