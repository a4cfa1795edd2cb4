package display

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
)

// Size of the 2.13" panel in its native portrait orientation.
const (
	PanelWidth  = 122
	PanelHeight = 250
)

// PNGPanel writes every update to a PNG file. Useful on development boards
// without a HAT.
type PNGPanel struct {
	path   string
	bounds image.Rectangle
}

// NewPNGPanel creates a file panel of the given size.
func NewPNGPanel(path string, bounds image.Rectangle) *PNGPanel {
	return &PNGPanel{path: path, bounds: bounds}
}

// Draw renders src into a panel-sized image and atomically replaces the file.
func (p *PNGPanel) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	img := image.NewRGBA(p.bounds)
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(img, dstRect.Intersect(p.bounds), src, srcPts, draw.Src)

	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".panel-*.png")
	if err != nil {
		return fmt.Errorf("create panel file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode panel image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close panel file: %w", err)
	}
	return os.Rename(tmp.Name(), p.path)
}

// Bounds returns the configured size.
func (p *PNGPanel) Bounds() image.Rectangle { return p.bounds }

// Close is a no-op.
func (p *PNGPanel) Close() error { return nil }
