// Package importer loads and decodes source images.
package importer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/piwi3910/imgslice/internal/model"
)

const (
	// maxImageDimension caps width/height before decoding so a corrupt header
	// cannot trigger a huge allocation.
	maxImageDimension = 65535
	// maxImagePixels bounds the decoded pixel count (roughly 256 MP, 1 GiB of RGBA).
	maxImagePixels int64 = 256 * 1024 * 1024
)

// SupportedExtensions lists the file extensions offered in open dialogs.
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// IsSupported reports whether path has an extension listed in SupportedExtensions.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// LoadImage reads and decodes the image file at path.
func LoadImage(path string) (*model.Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open image: %w", err)
	}
	defer f.Close()
	return DecodeImage(f, path)
}

// DecodeImage decodes an image from r. name is recorded as the bitmap path.
// The header is checked against the size limits before pixels are decoded.
func DecodeImage(r io.Reader, name string) (*model.Bitmap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image header: %w", err)
	}
	if err := validateBounds(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode %s image: %w", format, err)
	}
	return model.NewBitmap(name, format, img), nil
}

func validateBounds(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("image bounds invalid (%d x %d)", width, height)
	}
	if width > maxImageDimension || height > maxImageDimension {
		return fmt.Errorf("image dimension exceeds limit (%d x %d)", width, height)
	}
	if pixels := int64(width) * int64(height); pixels > maxImagePixels {
		return fmt.Errorf("image pixel count %d exceeds limit %d", pixels, maxImagePixels)
	}
	return nil
}

// Thumbnail scales img down to fit within maxWidth x maxHeight, preserving
// the aspect ratio. Images that already fit are returned unchanged.
func Thumbnail(img image.Image, maxWidth, maxHeight int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || maxHeight <= 0 || (b.Dx() <= maxWidth && b.Dy() <= maxHeight) {
		return img
	}
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Linear)
}
