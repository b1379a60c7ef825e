package project

import (
	"image"
	"math"

	"github.com/gardar/textalign/pkg/glyph"
)

// Rotation describes how the page image was rotated before line detection and OCR
type Rotation struct {
	Angle     float64     // Degrees the source image was rotated by
	Processed image.Point // Width and height of the rotated canvas the glyph boxes live in
	Original  image.Point // Width and height of the source image
}

// Identity reports whether undoing r leaves boxes unchanged
func (r Rotation) Identity() bool {
	return r.Angle == 0 && r.Processed == r.Original
}

// Undo maps a box from the processed canvas back onto the source image
func (r Rotation) Undo(box glyph.BoundingBox) glyph.BoundingBox {
	if r.Identity() {
		return box
	}
	return RotateBox(box, -r.Angle, r.Processed, r.Original)
}

// RotateBox rotates both corners of box by angle degrees around the center of the pivot
// canvas. The rotation that produced the pivot canvas padded it; the padding, half the size
// difference between pivot and target canvas on each axis, is removed when translating the
// corners back. Coordinates are rounded to the nearest pixel, ties to even.
func RotateBox(box glyph.BoundingBox, angle float64, pivot, target image.Point) glyph.BoundingBox {
	px, py := float64(pivot.X)/2, float64(pivot.Y)/2
	dx, dy := float64(pivot.X-target.X)/2, float64(pivot.Y-target.Y)/2

	rad := angle * math.Pi / 180
	s, c := math.Sin(rad), math.Cos(rad)

	corner := func(p image.Point) image.Point {
		x, y := float64(p.X)-px, float64(p.Y)-py
		rx := x*c - y*s
		ry := x*s + y*c
		return image.Pt(
			int(math.RoundToEven(rx+px-dx)),
			int(math.RoundToEven(ry+py-dy)),
		)
	}
	return glyph.BoundingBox{UL: corner(box.UL), LR: corner(box.LR)}
}
