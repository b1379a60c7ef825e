package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gardar/textalign/pkg/glyph"
)

func TestRecognizeStripsKeepsStripOrder(t *testing.T) {
	strips := []Strip{
		{X: 10, Y: 0, Width: 100, Height: 20},
		{X: 10, Y: 30, Width: 100, Height: 20},
		{X: 10, Y: 60, Width: 100, Height: 20},
	}
	texts := map[int]string{0: "ab", 30: "cd", 60: "ef"}

	var inFlight, peak int32
	r := RecognizerFunc(func(ctx context.Context, img image.Image, s Strip) ([]Span, error) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		// earlier strips finish last
		time.Sleep(time.Duration(60-s.Y) * time.Millisecond / 10)
		var spans []Span
		for i, c := range texts[s.Y] {
			spans = append(spans, Span{Char: string(c), Start: float64(i * 5), End: float64(i*5 + 5)})
		}
		return spans, nil
	})

	got, err := RecognizeStrips(context.Background(), r, nil, strips, 2)
	if err != nil {
		t.Fatalf("RecognizeStrips error: %v", err)
	}
	if glyph.Text(got) != "abcdef" {
		t.Fatalf("text = %q, want \"abcdef\"", glyph.Text(got))
	}
	if want := glyph.NewBoundingBox(15, 30, 20, 50); *got[3].Box != want {
		t.Errorf("glyph 'd' box = %v, want %v", got[3].Box, want)
	}
	if peak > 2 {
		t.Errorf("%d strips in flight, limit was 2", peak)
	}
}

func TestRecognizeStripsWrapsFailure(t *testing.T) {
	boom := errors.New("engine crashed")
	r := RecognizerFunc(func(ctx context.Context, img image.Image, s Strip) ([]Span, error) {
		if s.Y == 30 {
			return nil, boom
		}
		return []Span{{Char: "a", Start: 0, End: 1}}, nil
	})
	strips := []Strip{{Y: 0, Height: 10}, {Y: 30, Height: 10}}

	_, err := RecognizeStrips(context.Background(), r, nil, strips, 0)
	if !errors.Is(err, ErrRecognition) {
		t.Errorf("expected ErrRecognition, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("engine error not wrapped: %v", err)
	}
}

func TestSpanGlyphs(t *testing.T) {
	s := Strip{X: 100, Y: 40, Width: 300, Height: 25}
	got := SpanGlyphs([]Span{{Char: "a", Start: 0.4, End: 6.5}, {Char: "fi", Start: 6.5, End: 14}}, s)
	if glyph.Text(got) != "afi" {
		t.Fatalf("text = %q", glyph.Text(got))
	}
	want := []glyph.BoundingBox{
		glyph.NewBoundingBox(100, 40, 106, 65),
		glyph.NewBoundingBox(106, 40, 114, 65),
		glyph.NewBoundingBox(106, 40, 114, 65),
	}
	for i, g := range got {
		if *g.Box != want[i] {
			t.Errorf("glyph %d box = %v, want %v", i, g.Box, want[i])
		}
	}
}

func TestReadLLocs(t *testing.T) {
	in := "d\t7.2\n~\t9.0\no\t15.5\n \t20\nm\t28.4\n"
	s := Strip{X: 50, Y: 10, Width: 200, Height: 30}

	got, err := ReadLLocs(strings.NewReader(in), s)
	if err != nil {
		t.Fatalf("ReadLLocs error: %v", err)
	}
	if glyph.Text(got) != "do m" {
		t.Fatalf("text = %q, want \"do m\"", glyph.Text(got))
	}
	want := []glyph.BoundingBox{
		glyph.NewBoundingBox(50, 10, 57, 40),
		glyph.NewBoundingBox(59, 10, 66, 40), // starts at the dropped '~' entry's right edge
		glyph.NewBoundingBox(66, 10, 70, 40),
		glyph.NewBoundingBox(70, 10, 78, 40),
	}
	for i, g := range got {
		if *g.Box != want[i] {
			t.Errorf("glyph %d %q box = %v, want %v", i, g.Char, g.Box, want[i])
		}
	}
}

func TestReadLLocsMalformed(t *testing.T) {
	for _, in := range []string{"a 12\n", "a\tx\n"} {
		if _, err := ReadLLocs(strings.NewReader(in), Strip{}); err == nil {
			t.Errorf("ReadLLocs(%q) should fail", in)
		}
	}
}

func TestGlyphsFromLLocs(t *testing.T) {
	dir := t.TempDir()
	files := []string{filepath.Join(dir, "_0.llocs"), filepath.Join(dir, "_1.llocs")}
	if err := os.WriteFile(files[0], []byte("a\t5\nb\t10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(files[1], []byte("c\t4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	strips := []Strip{{X: 0, Y: 0, Width: 50, Height: 10}, {X: 3, Y: 20, Width: 50, Height: 10}}

	got, err := GlyphsFromLLocs(files, strips)
	if err != nil {
		t.Fatalf("GlyphsFromLLocs error: %v", err)
	}
	if glyph.Text(got) != "abc" {
		t.Fatalf("text = %q", glyph.Text(got))
	}
	if want := glyph.NewBoundingBox(3, 20, 7, 30); *got[2].Box != want {
		t.Errorf("glyph 'c' box = %v, want %v", got[2].Box, want)
	}

	if _, err := GlyphsFromLLocs(files[:1], strips); err == nil {
		t.Errorf("expected an error for a file/strip count mismatch")
	}
}

func TestLLocsFilesNumericOrder(t *testing.T) {
	dir := t.TempDir()
	var strips []Strip
	for i := range 12 {
		name := filepath.Join(dir, fmt.Sprintf("_%d.llocs", i))
		if err := os.WriteFile(name, []byte(fmt.Sprintf("%c\t5\n", 'a'+i)), 0o644); err != nil {
			t.Fatal(err)
		}
		strips = append(strips, Strip{X: 0, Y: i * 100, Width: 50, Height: 20})
	}

	files, err := LLocsFiles(dir)
	if err != nil {
		t.Fatalf("LLocsFiles error: %v", err)
	}
	for i, f := range files {
		if want := fmt.Sprintf("_%d.llocs", i); filepath.Base(f) != want {
			t.Errorf("file %d = %s, want %s", i, filepath.Base(f), want)
		}
	}

	got, err := GlyphsFromLLocs(files, strips)
	if err != nil {
		t.Fatalf("GlyphsFromLLocs error: %v", err)
	}
	if text := glyph.Text(got); text != "abcdefghijkl" {
		t.Errorf("text = %q, want strips in reading order", text)
	}
	for i, g := range got {
		if g.Box.UL.Y != i*100 {
			t.Errorf("glyph %d (%c) at y=%d, want %d", i, g.Char, g.Box.UL.Y, i*100)
		}
	}
}

func TestLLocsFilesUnnumbered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.llocs", "line2.llocs", "a.llocs", "line10.llocs", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	files, err := LLocsFiles(dir)
	if err != nil {
		t.Fatalf("LLocsFiles error: %v", err)
	}
	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	if got, want := strings.Join(names, " "), "line2.llocs line10.llocs a.llocs b.llocs"; got != want {
		t.Errorf("order = %q, want %q", got, want)
	}
}
