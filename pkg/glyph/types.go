package glyph

import (
	"fmt"
	"image"
)

// BoundingBox is a pixel rectangle given by its upper-left and lower-right corners
type BoundingBox struct {
	UL image.Point // Upper-left corner
	LR image.Point // Lower-right corner
}

// NewBoundingBox creates a bounding box from the x1, y1, x2, y2 pixel coordinates.
// x1, y1 is the upper-left corner, x2, y2 the lower-right corner.
func NewBoundingBox(x1, y1, x2, y2 int) BoundingBox {
	return BoundingBox{
		UL: image.Pt(x1, y1),
		LR: image.Pt(x2, y2),
	}
}

// Valid reports whether the lower-right corner is not above or left of the upper-left corner
func (b BoundingBox) Valid() bool {
	return b.LR.X >= b.UL.X && b.LR.Y >= b.UL.Y
}

// Width of the box in pixels
func (b BoundingBox) Width() int { return b.LR.X - b.UL.X }

// Height of the box in pixels
func (b BoundingBox) Height() int { return b.LR.Y - b.UL.Y }

// Union returns the smallest box containing both b and o
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		UL: image.Pt(min(b.UL.X, o.UL.X), min(b.UL.Y, o.UL.Y)),
		LR: image.Pt(max(b.LR.X, o.LR.X), max(b.LR.Y, o.LR.Y)),
	}
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", b.UL.X, b.UL.Y, b.LR.X, b.LR.Y)
}

// Glyph is one recognized character.
// A glyph with a nil Box is a gap placeholder carrying no geometry.
type Glyph struct {
	Char rune         // Recognized character
	Box  *BoundingBox // Pixel geometry, nil for placeholders
}

// New creates a glyph with geometry
func New(char rune, box BoundingBox) Glyph {
	return Glyph{Char: char, Box: &box}
}

// Placeholder creates a glyph without geometry
func Placeholder(char rune) Glyph {
	return Glyph{Char: char}
}

// HasBox reports whether the glyph carries geometry
func (g Glyph) HasBox() bool { return g.Box != nil }

func (g Glyph) String() string {
	if g.Box == nil {
		return fmt.Sprintf("'%c': empty", g.Char)
	}
	return fmt.Sprintf("'%c': %s", g.Char, g.Box)
}
