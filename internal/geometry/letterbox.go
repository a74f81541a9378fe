package geometry

import (
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/fault"
)

// Box is an axis-aligned rectangle in corner form (x1,y1,x2,y2).
type Box struct {
	X1, Y1, X2, Y2 float32
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float32 { return b.X2 - b.X1 }

// Height returns the vertical extent of the box.
func (b Box) Height() float32 { return b.Y2 - b.Y1 }

// Area returns the box area, 0 for degenerate boxes.
func (b Box) Area() float32 {
	if b.X2 <= b.X1 || b.Y2 <= b.Y1 {
		return 0
	}
	return (b.X2 - b.X1) * (b.Y2 - b.Y1)
}

// Mode selects how the source image is fitted onto the square canvas.
type Mode string

const (
	// Letterbox scales uniformly and pads the remainder symmetrically.
	Letterbox Mode = "letterbox"
	// Stretch scales each axis independently, no padding.
	Stretch Mode = "stretch"
)

// Transform maps between original-image pixel coordinates and the square
// canvas the detector consumes. Built once per image, immutable after.
type Transform struct {
	SrcWidth  int
	SrcHeight int
	Canvas    int
	Mode      Mode

	scaleX float32
	scaleY float32
	padX   float32
	padY   float32
}

// NewTransform computes the fit of a (width, height) image onto a canvas×canvas
// square. A zero-area source is rejected.
func NewTransform(width, height, canvas int, mode Mode) (Transform, error) {
	if width <= 0 || height <= 0 {
		return Transform{}, fault.New(fault.InvalidImageGeometry,
			"source image has zero area (%dx%d)", width, height)
	}
	t := Transform{SrcWidth: width, SrcHeight: height, Canvas: canvas, Mode: mode}
	switch mode {
	case Stretch:
		t.scaleX = float32(canvas) / float32(width)
		t.scaleY = float32(canvas) / float32(height)
	default:
		side := width
		if height > side {
			side = height
		}
		s := float32(canvas) / float32(side)
		t.scaleX = s
		t.scaleY = s
		t.padX = (float32(canvas) - float32(width)*s) / 2
		t.padY = (float32(canvas) - float32(height)*s) / 2
	}
	return t, nil
}

// Scale returns the uniform scale factor (letterbox) or the X scale (stretch).
func (t Transform) Scale() float32 { return t.scaleX }

// Padding returns the symmetric padding (left/right, top/bottom) in canvas
// pixels. Zero in stretch mode.
func (t Transform) Padding() (x, y float32) { return t.padX, t.padY }

// ToOriginal maps a canvas-space box back to original-image coordinates,
// clamped to [0,width]×[0,height].
func (t Transform) ToOriginal(b Box) Box {
	out := Box{
		X1: (b.X1 - t.padX) / t.scaleX,
		Y1: (b.Y1 - t.padY) / t.scaleY,
		X2: (b.X2 - t.padX) / t.scaleX,
		Y2: (b.Y2 - t.padY) / t.scaleY,
	}
	w := float32(t.SrcWidth)
	h := float32(t.SrcHeight)
	out.X1 = clamp(out.X1, 0, w)
	out.X2 = clamp(out.X2, 0, w)
	out.Y1 = clamp(out.Y1, 0, h)
	out.Y2 = clamp(out.Y2, 0, h)
	return out
}

// ToCanvas maps an original-image box into canvas coordinates.
func (t Transform) ToCanvas(b Box) Box {
	return Box{
		X1: b.X1*t.scaleX + t.padX,
		Y1: b.Y1*t.scaleY + t.padY,
		X2: b.X2*t.scaleX + t.padX,
		Y2: b.Y2*t.scaleY + t.padY,
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
