package export

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"testing"

	"github.com/piwi3910/imgslice/internal/engine"
	"github.com/piwi3910/imgslice/internal/model"
)

// testBitmap returns a w x h gradient image.
func testBitmap(w, h int) *model.Bitmap {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 255})
		}
	}
	return model.NewBitmap("test.png", "png", img)
}

func mustPlan(w, h int, cfg model.PartitionConfig) []model.Region {
	regions, err := engine.Plan(w, h, cfg)
	if err != nil {
		panic(err)
	}
	return regions
}

type placedImage struct {
	X, Y, Width, Height float64
	Bytes               int
	Data                []byte
}

type recordedPage struct {
	Width, Height float64
	Orientation   model.PageOrientation
	Images        []placedImage
}

// recordingDocument captures the calls the renderer makes.
type recordingDocument struct {
	NominalWidth, NominalHeight float64
	Orientation                 model.PageOrientation
	Pages                       []recordedPage
}

func (d *recordingDocument) AddPage(width, height float64, orientation model.PageOrientation) error {
	d.Pages = append(d.Pages, recordedPage{Width: width, Height: height, Orientation: orientation})
	return nil
}

func (d *recordingDocument) PlaceImage(jpeg []byte, x, y, width, height float64) error {
	p := &d.Pages[len(d.Pages)-1]
	p.Images = append(p.Images, placedImage{X: x, Y: y, Width: width, Height: height, Bytes: len(jpeg), Data: bytes.Clone(jpeg)})
	return nil
}

func (d *recordingDocument) PageCount() int { return len(d.Pages) }

func (d *recordingDocument) Output(w io.Writer) error {
	_, err := io.WriteString(w, "recorded")
	return err
}

// recordingFactory returns a factory and a pointer to the documents it created.
func recordingFactory() (DocumentFactory, *[]*recordingDocument) {
	var docs []*recordingDocument
	return func(w, h float64, o model.PageOrientation) Document {
		d := &recordingDocument{NominalWidth: w, NominalHeight: h, Orientation: o}
		docs = append(docs, d)
		return d
	}, &docs
}

// decodePlaced decodes the JPEG placed on a recorded page.
func decodePlaced(t *testing.T, p placedImage) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(p.Data))
	if err != nil {
		t.Fatalf("placed image is not a JPEG: %v", err)
	}
	return img
}

// assertGradientAt checks that pixel (x, y) of img carries the test gradient
// value of source pixel (srcX, srcY), allowing for JPEG loss.
func assertGradientAt(t *testing.T, img image.Image, x, y, srcX, srcY int) {
	t.Helper()
	b := img.Bounds()
	r, g, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
	const tolerance = 6
	if d := int(r>>8) - srcX; d < -tolerance || d > tolerance {
		t.Errorf("pixel (%d,%d) red = %d, want about %d", x, y, r>>8, srcX)
	}
	if d := int(g>>8) - srcY; d < -tolerance || d > tolerance {
		t.Errorf("pixel (%d,%d) green = %d, want about %d", x, y, g>>8, srcY)
	}
}
