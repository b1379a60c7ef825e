package hocr

import (
	"unicode/utf8"

	"github.com/gardar/textalign/pkg/glyph"
)

// Glyphs returns the characters of a page as glyphs in reading order.
//
// Character geometry comes from ocrx_cinfo elements, or else from the word's x_bboxes
// property; a word with neither is divided evenly across its box. Consecutive words on a
// line are separated by a space glyph covering the gap between them. Every glyph takes its
// vertical extent from its line, so all glyphs of a line share one top coordinate.
func Glyphs(page Page) []glyph.Glyph {
	var out []glyph.Glyph
	for _, line := range PageLines(page) {
		out = append(out, lineGlyphs(line)...)
	}
	return out
}

func lineGlyphs(line Line) []glyph.Glyph {
	top, bottom := line.BBox.Y1, line.BBox.Y2
	if line.BBox.IsZero() {
		var span BoundingBox
		for _, w := range line.Words {
			span = span.Union(w.BBox)
		}
		top, bottom = span.Y1, span.Y2
	}
	snap := func(x1, x2 float64) glyph.BoundingBox {
		return NewBoundingBox(x1, top, x2, bottom).Glyph()
	}

	var out []glyph.Glyph
	for i, w := range line.Words {
		if w.Text == "" && len(w.Chars) == 0 {
			continue
		}
		if i > 0 && len(out) > 0 {
			prev := line.Words[i-1].BBox.X2
			out = append(out, glyph.New(' ', snap(prev, max(prev, w.BBox.X1))))
		}
		for _, c := range wordChars(w) {
			b := snap(c.BBox.X1, c.BBox.X2)
			out = append(out, glyph.Split(c.Text, &b)...)
		}
	}
	return out
}

// wordChars returns the characters of w with their horizontal extent
func wordChars(w Word) []Char {
	if len(w.Chars) > 0 {
		return w.Chars
	}
	n := utf8.RuneCountInString(w.Text)
	chars := make([]Char, 0, n)
	if len(w.CharBoxes) == n {
		i := 0
		for _, r := range w.Text {
			chars = append(chars, Char{Text: string(r), BBox: w.CharBoxes[i]})
			i++
		}
		return chars
	}
	step := (w.BBox.X2 - w.BBox.X1) / float64(n)
	i := 0
	for _, r := range w.Text {
		x1 := w.BBox.X1 + float64(i)*step
		chars = append(chars, Char{Text: string(r), BBox: NewBoundingBox(x1, w.BBox.Y1, x1+step, w.BBox.Y2)})
		i++
	}
	return chars
}
