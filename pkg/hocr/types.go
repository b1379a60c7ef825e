package hocr

import (
	"fmt"
	"math"

	"github.com/gardar/textalign/pkg/glyph"
)

// HOCR represents the entire hOCR document structure
type HOCR struct {
	Title       string            // Document title
	Description string            // Document description
	Language    string            // Document language
	Metadata    map[string]string // ocr-system, ocr-capabilities and similar meta tags
	Pages       []Page            // Pages in the document
}

// Page is one page of recognized text
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID         string            // Unique identifier
	Title      string            // Original title attribute
	PageNumber int               // Page number in document
	ImageName  string            // Source image filename
	Lang       string            // Language code for this page
	BBox       BoundingBox       // Page coordinates
	Areas      []Area            // Content areas (columns)
	Paragraphs []Paragraph       // Paragraphs directly under page
	Lines      []Line            // Lines directly under page (no parent)
	Metadata   map[string]string // Other page properties
}

// Class assign 'ocr_page' to 'Page' struct
func (Page) Class() string { return "ocr_page" }

// Area represents a content area (column or region)
// Corresponds to hOCR element with class: 'ocr_carea'
type Area struct {
	ID         string            // Unique identifier
	Lang       string            // Language code
	BBox       BoundingBox       // Area coordinates
	Paragraphs []Paragraph       // Paragraphs in this area
	Lines      []Line            // Text lines directly under area
	Words      []Word            // Words directly under area (no line parent)
	Metadata   map[string]string // Other area properties
}

// Class assign 'ocr_carea' to 'Area' struct
func (Area) Class() string { return "ocr_carea" }

// Paragraph represents a paragraph within an area
// Corresponds to hOCR element with class: 'ocr_par'
type Paragraph struct {
	ID       string            // Unique identifier
	Lang     string            // Language code
	BBox     BoundingBox       // Paragraph coordinates
	Lines    []Line            // Text lines in this paragraph
	Words    []Word            // Words directly under paragraph (no line parent)
	Metadata map[string]string // Other paragraph properties
}

// Class assign 'ocr_par' to 'Paragraph' struct
func (Paragraph) Class() string { return "ocr_par" }

// Line represents a line of text
// Corresponds to hOCR element with class: 'ocr_line'
type Line struct {
	ID       string            // Unique identifier
	Lang     string            // Language code
	BBox     BoundingBox       // Line coordinates
	Baseline string            // Baseline information
	Words    []Word            // Words in this line
	Metadata map[string]string // Other line properties
}

// Class assign 'ocr_line' to 'Line' struct
func (Line) Class() string { return "ocr_line" }

// Word is a recognized word with bounding box
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string            // Unique identifier
	Text       string            // The actual text content
	BBox       BoundingBox       // Word coordinates
	Confidence float64           // Recognition confidence (0-100)
	Lang       string            // Language code
	Chars      []Char            // Character elements inside the word, if any
	CharBoxes  []BoundingBox     // Per-character boxes from the x_bboxes property, if any
	Metadata   map[string]string // Other word properties
}

// Class assign 'ocrx_word' to 'Word' struct
func (Word) Class() string { return "ocrx_word" }

// Char is a single recognized character
// Corresponds to hOCR element with class: 'ocrx_cinfo'
type Char struct {
	ID         string      // Unique identifier
	Text       string      // Usually one character, ligatures may carry more
	BBox       BoundingBox // Character coordinates
	Confidence float64     // Recognition confidence (0-100), from x_conf
}

// Class assign 'ocrx_cinfo' to 'Char' struct
func (Char) Class() string { return "ocrx_cinfo" }

// BoundingBox represents a rectangle in the document
// Used to store hOCR 'bbox' property values
type BoundingBox struct {
	X1 float64 // Left coordinate
	Y1 float64 // Top coordinate
	X2 float64 // Right coordinate
	Y2 float64 // Bottom coordinate
}

// NewBoundingBox creates a bounding box from the x1, y1, x2, y2 coordinates of an hOCR
// 'bbox' property. x1, y1 is the top-left corner, x2, y2 the bottom-right corner.
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// FromGlyphBox converts a pixel box to an hOCR bounding box
func FromGlyphBox(b glyph.BoundingBox) BoundingBox {
	return NewBoundingBox(float64(b.UL.X), float64(b.UL.Y), float64(b.LR.X), float64(b.LR.Y))
}

// IsZero reports whether the box was never set
func (b BoundingBox) IsZero() bool { return b == BoundingBox{} }

// Union returns the smallest box containing b and o. A zero box is treated as empty.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	if b.IsZero() {
		return o
	}
	if o.IsZero() {
		return b
	}
	return NewBoundingBox(math.Min(b.X1, o.X1), math.Min(b.Y1, o.Y1), math.Max(b.X2, o.X2), math.Max(b.Y2, o.Y2))
}

// Glyph returns b as an integer pixel box
func (b BoundingBox) Glyph() glyph.BoundingBox {
	return glyph.NewBoundingBox(round(b.X1), round(b.Y1), round(b.X2), round(b.Y2))
}

// Title renders b as the value of an hOCR 'bbox' property
func (b BoundingBox) Title() string {
	return fmt.Sprintf("bbox %d %d %d %d", round(b.X1), round(b.Y1), round(b.X2), round(b.Y2))
}

func round(f float64) int { return int(math.Round(f)) }
