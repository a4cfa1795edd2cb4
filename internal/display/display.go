// Package display composes badge images and pushes them to the e-paper panel.
package display

import (
	"fmt"
	"image"
	"io"

	"github.com/smazurov/inkbadge/internal/logging"
)

// Panel is a physical or virtual output device.
type Panel interface {
	Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error
	Bounds() image.Rectangle
}

// Display owns the frame and the panel it is shown on.
type Display struct {
	panel    Panel
	rotation Rotation
	frame    *Frame
	logger   logging.Logger
}

// New creates a display for panel. The frame is sized so that after rotation
// it covers the whole panel.
func New(panel Panel, rotation Rotation, logger logging.Logger) *Display {
	return &Display{
		panel:    panel,
		rotation: rotation,
		frame:    NewFrame(rotation.frameBounds(panel.Bounds())),
		logger:   logger,
	}
}

// SetImage decodes the file read from r and composites it over the frame.
// The panel keeps showing the previous content until Update.
func (d *Display) SetImage(path string, r io.Reader) error {
	if err := d.frame.Load(path, r); err != nil {
		return err
	}
	d.logger.Debug("Image composited", "path", path)
	return nil
}

// Clear resets the frame to white. The panel is not touched.
func (d *Display) Clear() { d.frame.Clear() }

// Frame exposes the image layer.
func (d *Display) Frame() *Frame { return d.frame }

// Update pushes the frame to the panel.
func (d *Display) Update() error {
	img := d.rotation.Apply(d.frame.Image())
	if err := d.panel.Draw(d.panel.Bounds(), img, img.Bounds().Min); err != nil {
		return fmt.Errorf("panel update: %w", err)
	}
	d.logger.Info("Panel updated", "rotation", d.rotation.Degrees())
	return nil
}
