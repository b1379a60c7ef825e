// Package glyph holds the character-level data model shared by the OCR engines, the
// aligner front end and the syllable box projector.
//
// A Glyph is a single recognized character together with an optional pixel bounding box.
// Glyphs without a box are gap placeholders: they occupy a position in a character stream
// but have no geometry on the page.
//
// Key Types:
//
// - Glyph: a recognized character with optional geometry
// - BoundingBox: upper-left / lower-right pixel rectangle
//
// Main Functions:
//
// - Text: the flat character stream of a glyph list
// - Clean: drop "no character" markers emitted by OCR engines
// - ExpandAbbreviations: replace scribal abbreviations by their full spelling
// - Transliterate: fold non-ASCII OCR output to ASCII
package glyph

import (
	"strings"

	"github.com/anyascii/go"
)

// Text returns the characters of gs as one string
func Text(gs []Glyph) string {
	var b strings.Builder
	for _, g := range gs {
		b.WriteRune(g.Char)
	}
	return b.String()
}

// Runes returns the characters of gs as a rune slice
func Runes(gs []Glyph) []rune {
	out := make([]rune, len(gs))
	for i, g := range gs {
		out[i] = g.Char
	}
	return out
}

// Clean drops glyphs OCR engines use to mark "no character here" ('~' and NUL).
// The returned slice is a new slice; gs is left untouched.
func Clean(gs []Glyph) []Glyph {
	out := make([]Glyph, 0, len(gs))
	for _, g := range gs {
		if g.Char == '~' || g.Char == 0 {
			continue
		}
		out = append(out, g)
	}
	return out
}

// Split turns a multi-character string recognized as one unit into glyphs that all share
// the same box. A nil box produces placeholders.
func Split(s string, box *BoundingBox) []Glyph {
	out := make([]Glyph, 0, len(s))
	for _, r := range s {
		g := Glyph{Char: r}
		if box != nil {
			b := *box
			g.Box = &b
		}
		out = append(out, g)
	}
	return out
}

// Transliterate folds every glyph to ASCII. A glyph folding to several characters becomes
// several glyphs sharing its box; a glyph folding to nothing is dropped.
func Transliterate(gs []Glyph) []Glyph {
	out := make([]Glyph, 0, len(gs))
	for _, g := range gs {
		if g.Char < 0x80 {
			out = append(out, g)
			continue
		}
		out = append(out, Split(anyascii.Transliterate(string(g.Char)), g.Box)...)
	}
	return out
}
