package glyph

import (
	"github.com/gardar/textalign/pkg/syllable"
)

// DefaultMaxExpansions bounds how many replacements ExpandAbbreviations performs per table entry
const DefaultMaxExpansions = 10000

// ExpandAbbreviations replaces every occurrence of a table abbreviation in the OCR stream with
// its expansion. The k-th character of the abbreviation is replaced by the characters of the
// k-th expansion segment, each carrying the box of the character it replaces.
//
// Entries are applied in table order. At most maxIters replacements are made per entry
// (maxIters <= 0 selects DefaultMaxExpansions). gs is never modified; a new slice is returned.
func ExpandAbbreviations(gs []Glyph, table []syllable.Abbreviation, maxIters int) []Glyph {
	if maxIters <= 0 {
		maxIters = DefaultMaxExpansions
	}
	out := append([]Glyph(nil), gs...)
	for _, abb := range table {
		pattern := []rune(abb.Short)
		if len(pattern) == 0 || len(abb.Segments) > len(pattern) {
			continue
		}
		from := 0
		for n := 0; n < maxIters; n++ {
			idx, found := indexRunes(out, pattern, from)
			if !found {
				break
			}
			var ins []Glyph
			for k, seg := range abb.Segments {
				ins = append(ins, Split(seg, out[idx+k].Box)...)
			}
			next := make([]Glyph, 0, len(out)-len(pattern)+len(ins))
			next = append(next, out[:idx]...)
			next = append(next, ins...)
			next = append(next, out[idx+len(pattern):]...)
			out = next
			from = idx + len(ins)
		}
	}
	return out
}

// indexRunes finds the first occurrence of pattern in the glyph stream at or after from
func indexRunes(gs []Glyph, pattern []rune, from int) (int, bool) {
	for i := from; i+len(pattern) <= len(gs); i++ {
		match := true
		for k, r := range pattern {
			if gs[i+k].Char != r {
				match = false
				break
			}
		}
		if match {
			return i, true
		}
	}
	return -1, false
}
