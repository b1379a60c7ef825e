// Package ocr defines how the aligner talks to OCR engines.
//
// Pages are recognized one text line at a time. Line detection happens upstream and yields a
// list of strips, each a horizontal band of the processed page image. An engine reports the
// characters it recognized in a strip together with their horizontal extent; this package
// places them on the page and returns them as glyphs in reading order.
//
// Key Types:
//
// - Strip: a text line band of the processed page image
// - Span: one recognized character with its strip-local horizontal extent
// - Recognizer: an OCR engine able to read a single strip
//
// Main Functions:
//
// - RecognizeStrips: run a Recognizer over every strip of a page concurrently
// - ReadLLocs: read OCRopus .llocs output for one strip
// - GlyphsFromLLocs: read the .llocs files of a whole page
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/gardar/textalign/pkg/glyph"
)

// ErrRecognition is wrapped by every failure of an external OCR engine.
// Callers processing many pages skip the page and carry on.
var ErrRecognition = errors.New("ocr recognition failed")

// Strip is a text line band of the processed page, in processed canvas pixels
type Strip struct {
	X      int `json:"x" yaml:"x" toml:"x"`
	Y      int `json:"y" yaml:"y" toml:"y"`
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
}

// Rect returns the strip as an image rectangle
func (s Strip) Rect() image.Rectangle {
	return image.Rect(s.X, s.Y, s.X+s.Width, s.Y+s.Height)
}

// Span is one recognized character. Start and End are measured from the left edge of the strip.
type Span struct {
	Char  string
	Start float64
	End   float64
}

// Recognizer reads the characters of a single strip
type Recognizer interface {
	RecognizeStrip(ctx context.Context, img image.Image, s Strip) ([]Span, error)
}

// RecognizerFunc adapts a plain function to the Recognizer interface
type RecognizerFunc func(ctx context.Context, img image.Image, s Strip) ([]Span, error)

// RecognizeStrip calls f
func (f RecognizerFunc) RecognizeStrip(ctx context.Context, img image.Image, s Strip) ([]Span, error) {
	return f(ctx, img, s)
}

// RecognizeStrips runs r over every strip with at most parallel strips in flight
// (parallel <= 0 means one per strip). Glyphs are returned in strip order whatever order the
// strips finish in. Each span covers the full strip height.
func RecognizeStrips(ctx context.Context, r Recognizer, img image.Image, strips []Strip, parallel int) ([]glyph.Glyph, error) {
	results := make([][]Span, len(strips))

	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, s := range strips {
		g.Go(func() error {
			spans, err := r.RecognizeStrip(ctx, img, s)
			if err != nil {
				return fmt.Errorf("%w: strip %d: %w", ErrRecognition, i, err)
			}
			results[i] = spans
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var glyphs []glyph.Glyph
	for i, s := range strips {
		glyphs = append(glyphs, SpanGlyphs(results[i], s)...)
	}
	return glyphs, nil
}

// SpanGlyphs places strip-local spans on the page. A span holding several characters becomes
// several glyphs sharing its box.
func SpanGlyphs(spans []Span, s Strip) []glyph.Glyph {
	out := make([]glyph.Glyph, 0, len(spans))
	for _, sp := range spans {
		box := glyph.NewBoundingBox(
			int(math.RoundToEven(sp.Start))+s.X, s.Y,
			int(math.RoundToEven(sp.End))+s.X, s.Y+s.Height,
		)
		out = append(out, glyph.Split(sp.Char, &box)...)
	}
	return out
}

// Engine recognizes a whole page, given its text line strips.
// Engines reading a page in one request may ignore the strips.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, img image.Image, strips []Strip) ([]glyph.Glyph, error)
}

// StripEngine turns a strip Recognizer into an Engine running up to parallel strips at once
func StripEngine(name string, r Recognizer, parallel int) Engine {
	return &stripEngine{name: name, r: r, parallel: parallel}
}

type stripEngine struct {
	name     string
	r        Recognizer
	parallel int
}

func (e *stripEngine) Name() string { return e.name }

func (e *stripEngine) Recognize(ctx context.Context, img image.Image, strips []Strip) ([]glyph.Glyph, error) {
	return RecognizeStrips(ctx, e.r, img, strips, e.parallel)
}
