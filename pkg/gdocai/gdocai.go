// Package gdocai recognizes page images with Google Document AI.
//
// The processed page image is sent in a single request with symbol level OCR enabled. The
// response hierarchy (blocks, paragraphs, lines, tokens, symbols) is converted to the hOCR
// object model, from which the glyphs for alignment are taken: each symbol becomes a glyph,
// words on a line are separated by space glyphs and every glyph spans the height of its
// line.
//
// Key Types:
//
// - Config: the Document AI processor to use
// - Engine: an ocr.Engine backed by Document AI
//
// Main Functions:
//
// - ProcessImage: Sends a page image to Google Document AI for processing
// - CreateHOCRDocument: Converts a Document AI response to hOCR
// - PageGlyphs: Converts a Document AI page to reading-order glyphs
// - ToJSON: Dumps a response for inspection
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Authentication via GOOGLE_APPLICATION_CREDENTIALS or Config.CredentialsFile
package gdocai

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/textalign/pkg/glyph"
	"github.com/gardar/textalign/pkg/hocr"
	"github.com/gardar/textalign/pkg/ocr"
)

// Engine implements ocr.Engine. The whole page is recognized in one request, so the strip
// layout is not used.
type Engine struct {
	Config *Config

	// LastResponse, when set, receives the raw response of every request
	LastResponse func(*documentaipb.Document)

	process func(ctx context.Context, content []byte, mimeType string, cfg *Config) (*documentaipb.Document, error)
}

// NewEngine creates a Document AI engine for the given processor
func NewEngine(cfg *Config) *Engine {
	return &Engine{Config: cfg, process: ProcessImage}
}

// Name identifies the engine and its processor, so results of different processors are
// cached apart
func (e *Engine) Name() string {
	if e.Config == nil || e.Config.ProcessorID == "" {
		return "docai"
	}
	return "docai/" + e.Config.ProcessorID
}

// Recognize encodes img as PNG, sends it to Document AI and converts the first page of the
// response to glyphs. Failures wrap ocr.ErrRecognition.
func (e *Engine) Recognize(ctx context.Context, img image.Image, _ []ocr.Strip) ([]glyph.Glyph, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: no image", ocr.ErrRecognition)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page image: %w", err)
	}

	process := e.process
	if process == nil {
		process = ProcessImage
	}
	doc, err := process(ctx, buf.Bytes(), "image/png", e.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ocr.ErrRecognition, err)
	}
	if e.LastResponse != nil {
		e.LastResponse(doc)
	}
	if len(doc.GetPages()) == 0 {
		return nil, fmt.Errorf("%w: document ai returned no pages", ocr.ErrRecognition)
	}
	return PageGlyphs(doc.Pages[0], doc.Text), nil
}

// PageGlyphs converts one Document AI page to glyphs in reading order
func PageGlyphs(page *documentaipb.Document_Page, text string) []glyph.Glyph {
	return hocr.Glyphs(CreateHOCRPage(page, []rune(text), 1))
}

var _ ocr.Engine = (*Engine)(nil)
