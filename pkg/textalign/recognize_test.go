package textalign

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"reflect"
	"testing"

	"github.com/gardar/textalign/pkg/cache"
	"github.com/gardar/textalign/pkg/glyph"
	"github.com/gardar/textalign/pkg/ocr"
)

type countingEngine struct {
	calls  int
	glyphs []glyph.Glyph
	err    error
}

func (e *countingEngine) Name() string { return "fake" }

func (e *countingEngine) Recognize(ctx context.Context, img image.Image, strips []ocr.Strip) ([]glyph.Glyph, error) {
	e.calls++
	return e.glyphs, e.err
}

func pngPage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 4))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestRecognizeCachesResults(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	engine := &countingEngine{glyphs: []glyph.Glyph{
		glyph.New('e', box(0, 0, 4, 4)),
		glyph.New('t', box(4, 0, 8, 4)),
	}}
	layout := Layout{Strips: []ocr.Strip{{X: 0, Y: 0, Width: 8, Height: 4}}}
	img := pngPage(t)

	for i := 0; i < 2; i++ {
		got, err := Recognize(context.Background(), engine, img, layout, c, 0)
		if err != nil {
			t.Fatalf("Recognize #%d error: %v", i, err)
		}
		if !reflect.DeepEqual(got, engine.glyphs) {
			t.Errorf("Recognize #%d = %v, want %v", i, got, engine.glyphs)
		}
	}
	if engine.calls != 1 {
		t.Errorf("engine called %d times, want 1", engine.calls)
	}

	// different strips are a different page as far as the cache is concerned
	layout.Strips[0].Height = 3
	if _, err := Recognize(context.Background(), engine, img, layout, c, 0); err != nil {
		t.Fatalf("Recognize error: %v", err)
	}
	if engine.calls != 2 {
		t.Errorf("engine called %d times, want 2", engine.calls)
	}
}

func TestRecognizeWrapsFailures(t *testing.T) {
	engine := &countingEngine{err: errors.New("quota exceeded")}
	_, err := Recognize(context.Background(), engine, pngPage(t), Layout{}, nil, 0)
	if !errors.Is(err, ocr.ErrRecognition) {
		t.Errorf("error = %v, want ocr.ErrRecognition", err)
	}

	_, err = Recognize(context.Background(), &countingEngine{}, []byte("not an image"), Layout{}, nil, 0)
	if !errors.Is(err, ocr.ErrRecognition) {
		t.Errorf("decode error = %v, want ocr.ErrRecognition", err)
	}
}
