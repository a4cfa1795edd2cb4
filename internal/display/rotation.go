package display

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Rotation is the panel mounting in quarter turns.
type Rotation int

// Rotations. Rotate180 puts the buttons below the panel.
const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// DefaultRotation matches the usual badge mounting.
const DefaultRotation = Rotate180

// ParseRotation validates a configured rotation.
func ParseRotation(n int) (Rotation, error) {
	if n < 0 || n > 3 {
		return 0, fmt.Errorf("rotation %d out of range 0-3", n)
	}
	return Rotation(n), nil
}

// Degrees returns the rotation angle.
func (r Rotation) Degrees() int { return int(r) * 90 }

// Apply rotates img counter-clockwise by r.
func (r Rotation) Apply(img image.Image) image.Image {
	switch r {
	case Rotate90:
		return imaging.Rotate90(img)
	case Rotate180:
		return imaging.Rotate180(img)
	case Rotate270:
		return imaging.Rotate270(img)
	default:
		return img
	}
}

// frameBounds returns the unrotated frame size for a panel of the given bounds.
func (r Rotation) frameBounds(panel image.Rectangle) image.Rectangle {
	if r == Rotate90 || r == Rotate270 {
		return image.Rect(0, 0, panel.Dy(), panel.Dx())
	}
	return image.Rect(0, 0, panel.Dx(), panel.Dy())
}
