package project

import "github.com/gardar/textalign/pkg/align"

// matchSpan finds the first occurrence of syl in the aligned transcript at or after column
// from. Gaps may appear between any two characters of the syllable, but the first and last
// characters must sit on the span boundaries. The span is [start, end).
func matchSpan(aligned []rune, syl []rune, from int) (start, end int, found bool) {
	if len(syl) == 0 {
		return 0, 0, false
	}
	for start = from; start < len(aligned); start++ {
		if aligned[start] != syl[0] {
			continue
		}
		if end, ok := matchFrom(aligned, syl, start); ok {
			return start, end, true
		}
	}
	return 0, 0, false
}

// matchFrom matches syl with its first character at column start, skipping gaps in between
func matchFrom(aligned []rune, syl []rune, start int) (int, bool) {
	col := start + 1
	for _, r := range syl[1:] {
		for col < len(aligned) && aligned[col] == align.Gap {
			col++
		}
		if col >= len(aligned) || aligned[col] != r {
			return 0, false
		}
		col++
	}
	return col, true
}
