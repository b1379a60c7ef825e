// Package tesseract recognizes text line strips with Tesseract through gosseract.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sort"

	"github.com/otiai10/gosseract/v2"

	"github.com/gardar/textalign/pkg/ocr"
)

// Engine implements ocr.Recognizer using a fresh gosseract client per strip, so strips can be
// recognized concurrently.
type Engine struct {
	Languages      []string // Tesseract language codes, e.g. "lat"
	TessdataPrefix string   // Directory holding the traineddata files, empty for the default

	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract engine for the given languages
func New(languages ...string) *Engine {
	return &Engine{Languages: languages, clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// RecognizeStrip crops the strip out of img and reports one span per recognized symbol, with
// a space span filling the gap between consecutive words.
func (e *Engine) RecognizeStrip(ctx context.Context, img image.Image, s ocr.Strip) ([]ocr.Span, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, origin, err := cropStrip(img, s)
	if err != nil {
		return nil, err
	}

	factory := e.clientFactory
	if factory == nil {
		factory = gosseract.NewClient
	}
	c := factory()
	defer c.Close()

	if e.TessdataPrefix != "" {
		if err := c.SetTessdataPrefix(e.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if len(e.Languages) > 0 {
		if err := c.SetLanguage(e.Languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	symbols, err := c.GetBoundingBoxes(gosseract.RIL_SYMBOL)
	if err != nil {
		return nil, fmt.Errorf("symbol boxes: %w", err)
	}
	words, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("word boxes: %w", err)
	}
	return shiftSpans(mergeSpans(rects(symbols), rects(words)), float64(origin.X-s.X)), nil
}

// shiftSpans moves spans measured from the cropped image onto the strip's own origin
func shiftSpans(spans []ocr.Span, dx float64) []ocr.Span {
	if dx == 0 {
		return spans
	}
	for i := range spans {
		spans[i].Start += dx
		spans[i].End += dx
	}
	return spans
}

type box struct {
	text string
	rect image.Rectangle
}

func rects(bs []gosseract.BoundingBox) []box {
	out := make([]box, 0, len(bs))
	for _, b := range bs {
		out = append(out, box{text: b.Word, rect: b.Box})
	}
	return out
}

// mergeSpans turns symbol boxes into spans and adds a space between each pair of words.
// Spaces sort before a symbol starting at the same x.
func mergeSpans(symbols, words []box) []ocr.Span {
	type entry struct {
		span  ocr.Span
		space bool
	}
	entries := make([]entry, 0, len(symbols)+len(words))
	for _, sym := range symbols {
		if sym.text == "" {
			continue
		}
		entries = append(entries, entry{span: ocr.Span{
			Char:  sym.text,
			Start: float64(sym.rect.Min.X),
			End:   float64(sym.rect.Max.X),
		}})
	}

	sort.SliceStable(words, func(i, j int) bool { return words[i].rect.Min.X < words[j].rect.Min.X })
	for i := 1; i < len(words); i++ {
		entries = append(entries, entry{space: true, span: ocr.Span{
			Char:  " ",
			Start: float64(words[i-1].rect.Max.X),
			End:   float64(words[i].rect.Min.X),
		}})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].span.Start != entries[j].span.Start {
			return entries[i].span.Start < entries[j].span.Start
		}
		return entries[i].space && !entries[j].space
	})
	spans := make([]ocr.Span, len(entries))
	for i, e := range entries {
		spans[i] = e.span
	}
	return spans
}

// cropStrip encodes the part of the strip inside the image as PNG. It also returns where that
// part starts on the page, since the strip may be clipped by the image bounds.
func cropStrip(img image.Image, s ocr.Strip) ([]byte, image.Point, error) {
	if img == nil {
		return nil, image.Point{}, fmt.Errorf("no image to recognize")
	}
	rect := s.Rect().Intersect(img.Bounds())
	if rect.Empty() {
		return nil, image.Point{}, fmt.Errorf("strip %v outside image bounds", s.Rect())
	}
	subImg, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok {
		return nil, image.Point{}, fmt.Errorf("image does not support sub-image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, subImg.SubImage(rect)); err != nil {
		return nil, image.Point{}, fmt.Errorf("encode strip image: %w", err)
	}
	return buf.Bytes(), rect.Min, nil
}
