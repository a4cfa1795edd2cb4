package display

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	"io"

	// Registered image formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/smazurov/inkbadge/internal/fault"
)

// Frame is the in-memory image layer images are composed onto before the
// panel is refreshed.
type Frame struct {
	img *image.RGBA
}

// NewFrame creates a white frame of the given size.
func NewFrame(bounds image.Rectangle) *Frame {
	f := &Frame{img: image.NewRGBA(bounds)}
	f.Clear()
	return f
}

// Clear paints the frame white.
func (f *Frame) Clear() {
	draw.Draw(f.img, f.img.Bounds(), image.White, image.Point{}, draw.Src)
}

// Bounds returns the frame size.
func (f *Frame) Bounds() image.Rectangle { return f.img.Bounds() }

// Image returns the frame contents. The result aliases the frame.
func (f *Frame) Image() image.Image { return f.img }

// Load decodes an image from r and composites it over the frame at the
// origin. Failures are *fault.LoadError values classified by the step that
// failed; the frame is untouched on error.
func (f *Frame) Load(path string, r io.Reader) error {
	img, err := Decode(path, r)
	if err != nil {
		return err
	}
	f.Blit(img)
	return nil
}

// Blit composites img over the frame with its top-left corner at the origin.
func (f *Frame) Blit(img image.Image) {
	draw.Draw(f.img, f.img.Bounds(), img, img.Bounds().Min, draw.Over)
}

// Decode reads and decodes one image file.
func Decode(path string, r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fault.NewLoadError(fault.ImageIo, path, err)
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fault.NewLoadError(fault.ImageType, path, err)
		}
		return nil, fault.NewLoadError(fault.ImageRead, path, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fault.NewLoadError(fault.ImageParse, path, err)
	}
	return img, nil
}
