// Package project turns an alignment between a transcript and OCR output into pixel
// bounding boxes for the syllables of the transcript.
//
// The aligner tells which transcript characters were paired with which OCR characters; the
// OCR glyphs carry the geometry. Project walks the syllables in reading order, locates each
// one in the aligned transcript, gathers the glyphs under it and merges their boxes. Boxes
// are finally rotated back onto the unrotated source image.
//
// Key Types:
//
// - SyllableBox: a syllable with its bounding box on the source image
// - Rotation: the rotation applied to the page before OCR
// - ConsistencyError: the inputs do not describe the same page
//
// Main Functions:
//
// - Project: compute syllable boxes for one page
// - Extend: line the glyph list up with the aligned OCR sequence
// - RotateBox: rotate a box about a canvas center, compensating for padding
package project

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/gardar/textalign/pkg/align"
	"github.com/gardar/textalign/pkg/glyph"
)

// SyllableBox is a syllable of the transcript with its box on the source image
type SyllableBox struct {
	Syllable string            // Syllable text
	Box      glyph.BoundingBox // Pixel box in source image coordinates
}

// Options tunes Project
type Options struct {
	Rotation Rotation    // Rotation to undo, zero value for none
	Logger   *log.Logger // Receives debug messages about dropped syllables, may be nil
}

// Project computes the box of every syllable that aligned to at least one OCR glyph.
//
// syllables must come from the same transcript the alignment was built from, and glyphs must
// be the glyph list whose characters form the OCR side of the alignment. Syllables aligned
// only to gaps are dropped; a syllable that cannot be found at all, or a glyph list that does
// not fit the alignment, aborts the page with a ConsistencyError.
func Project(a align.Alignment, syllables []string, glyphs []glyph.Glyph, opts Options) ([]SyllableBox, error) {
	extended, err := Extend(glyphs, a.OCR)
	if err != nil {
		return nil, err
	}
	if len(extended) != len(a.Transcript) {
		return nil, &ConsistencyError{Reason: fmt.Sprintf(
			"extended glyph list has %d entries, aligned transcript has %d",
			len(extended), len(a.Transcript))}
	}

	boxes := make([]SyllableBox, 0, len(syllables))
	offset := 0
	for _, syl := range syllables {
		if syl == "" {
			continue
		}
		start, end, found := matchSpan(a.Transcript, []rune(syl), offset)
		if !found {
			return nil, &ConsistencyError{
				Reason:   fmt.Sprintf("not found in aligned transcript after column %d", offset),
				Syllable: syl,
			}
		}
		offset = end

		box, ok := spanBox(extended[start:end])
		if !ok {
			if opts.Logger != nil {
				opts.Logger.Debug("syllable aligned only to gaps", "syllable", syl, "start", start, "end", end)
			}
			continue
		}
		boxes = append(boxes, SyllableBox{Syllable: syl, Box: opts.Rotation.Undo(box)})
	}
	return boxes, nil
}

// Extend returns a copy of glyphs with a placeholder inserted wherever the aligned OCR
// sequence has a gap, so that index i of the result lines up with column i of the alignment.
// Every non-gap symbol of ocr must equal the character of the glyph it consumes.
func Extend(glyphs []glyph.Glyph, ocr []rune) ([]glyph.Glyph, error) {
	out := make([]glyph.Glyph, 0, len(ocr))
	next := 0
	for col, r := range ocr {
		if r == align.Gap {
			out = append(out, glyph.Placeholder(align.Gap))
			continue
		}
		if next >= len(glyphs) {
			return nil, &ConsistencyError{Reason: fmt.Sprintf(
				"aligned ocr has more characters than the %d glyphs", len(glyphs))}
		}
		if glyphs[next].Char != r {
			return nil, &ConsistencyError{Reason: fmt.Sprintf(
				"column %d holds %q but glyph %d is %q", col, r, next, glyphs[next].Char)}
		}
		out = append(out, glyphs[next])
		next++
	}
	if next != len(glyphs) {
		return nil, &ConsistencyError{Reason: fmt.Sprintf(
			"%d of %d glyphs are missing from the aligned ocr", len(glyphs)-next, len(glyphs))}
	}
	return out, nil
}

// spanBox merges the boxes of the glyphs under one syllable.
// When they sit on more than one text line only the lowest line is kept.
func spanBox(span []glyph.Glyph) (glyph.BoundingBox, bool) {
	var boxes []glyph.BoundingBox
	lowest := 0
	for _, g := range span {
		if g.Box == nil {
			continue
		}
		if len(boxes) == 0 || g.Box.UL.Y > lowest {
			lowest = g.Box.UL.Y
		}
		boxes = append(boxes, *g.Box)
	}
	if len(boxes) == 0 {
		return glyph.BoundingBox{}, false
	}

	var merged glyph.BoundingBox
	first := true
	for _, b := range boxes {
		if b.UL.Y != lowest {
			continue
		}
		if first {
			merged, first = b, false
			continue
		}
		merged = merged.Union(b)
	}
	return merged, true
}
