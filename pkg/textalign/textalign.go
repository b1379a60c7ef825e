// Package textalign ties the pieces of a page together: it normalizes a transcript, cleans and
// expands the OCR glyph stream, aligns the two, splits the transcript into syllables and
// projects each syllable onto the page image.
package textalign

import (
	"context"
	"fmt"

	"github.com/gardar/textalign/pkg/align"
	"github.com/gardar/textalign/pkg/glyph"
	"github.com/gardar/textalign/pkg/project"
	"github.com/gardar/textalign/pkg/syllable"
)

// Page is the input for one page
type Page struct {
	Transcript string        // Raw transcript text, normalized by Process
	Glyphs     []glyph.Glyph // OCR output in reading order, in processed image coordinates
	Layout     Layout
}

// Process aligns one page and returns its syllable boxes. The logger on ctx receives the
// per-page diagnostics.
func Process(ctx context.Context, p Page, cfg Config) (*Result, error) {
	logger := LoggerFromContext(ctx)

	scoring, err := cfg.Scoring.System()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transcript := NormalizeTranscript(p.Transcript)
	glyphs := PrepareGlyphs(p.Glyphs, cfg)
	logger.Debug("prepared page", "transcript", len([]rune(transcript)), "glyphs", len(glyphs))

	a, err := align.Align([]rune(transcript), glyph.Runes(glyphs), scoring)
	if err != nil {
		return nil, fmt.Errorf("align: %w", err)
	}
	logger.Debug("aligned", "columns", a.Len(), "score", a.Score)

	syllables, err := syllable.Syllabify(transcript)
	if err != nil {
		return nil, fmt.Errorf("syllabify: %w", err)
	}

	boxes, err := project.Project(a, syllables, glyphs, project.Options{
		Rotation: p.Layout.Rotation(),
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	logger.Debug("projected", "syllables", len(syllables), "boxes", len(boxes))

	return &Result{
		SyllableBoxes:     boxes,
		PeakLocations:     p.Layout.PeakLocations,
		MedianLineSpacing: MedianLineSpacing(p.Layout.PeakLocations),
	}, nil
}

// PrepareGlyphs applies the configured clean-up to an OCR glyph stream: "no character" markers
// are dropped, abbreviations are expanded and the result is optionally folded to ASCII.
// The input is not modified.
func PrepareGlyphs(gs []glyph.Glyph, cfg Config) []glyph.Glyph {
	out := glyph.Clean(gs)
	if cfg.Abbreviations {
		limit := cfg.MaxExpansions
		if limit == 0 {
			limit = glyph.DefaultMaxExpansions
		}
		out = glyph.ExpandAbbreviations(out, syllable.Abbreviations(), limit)
	}
	if cfg.Transliterate {
		out = glyph.Transliterate(out)
	}
	return out
}
