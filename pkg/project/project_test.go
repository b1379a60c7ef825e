package project

import (
	"errors"
	"image"
	"reflect"
	"testing"

	"github.com/gardar/textalign/pkg/align"
	"github.com/gardar/textalign/pkg/glyph"
)

func scoring(t *testing.T) align.ScoringSystem {
	t.Helper()
	s, err := align.FourCost(10, -5, -10, -1)
	if err != nil {
		t.Fatalf("FourCost error: %v", err)
	}
	return s
}

func mustAlign(t *testing.T, transcript string, glyphs []glyph.Glyph) align.Alignment {
	t.Helper()
	a, err := align.Align([]rune(transcript), glyph.Runes(glyphs), scoring(t))
	if err != nil {
		t.Fatalf("Align error: %v", err)
	}
	return a
}

func box(x1, y1, x2, y2 int) glyph.BoundingBox { return glyph.NewBoundingBox(x1, y1, x2, y2) }

func TestProjectMergesGlyphBoxes(t *testing.T) {
	glyphs := []glyph.Glyph{
		glyph.New('a', box(0, 0, 5, 10)),
		glyph.New('b', box(5, 0, 8, 10)),
		glyph.New('c', box(8, 0, 12, 10)),
	}
	a := mustAlign(t, "abc", glyphs)

	got, err := Project(a, []string{"abc"}, glyphs, Options{})
	if err != nil {
		t.Fatalf("Project error: %v", err)
	}
	want := []SyllableBox{{Syllable: "abc", Box: box(0, 0, 12, 10)}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Project = %+v, want %+v", got, want)
	}
}

func TestProjectSplitsSyllables(t *testing.T) {
	// "ab cd" against OCR without the space: the space column is a gap on the OCR side
	glyphs := []glyph.Glyph{
		glyph.New('a', box(0, 0, 4, 10)),
		glyph.New('b', box(4, 0, 9, 10)),
		glyph.New('c', box(15, 0, 20, 10)),
		glyph.New('d', box(20, 0, 26, 10)),
	}
	a := mustAlign(t, "ab cd", glyphs)

	got, err := Project(a, []string{"ab", "cd"}, glyphs, Options{})
	if err != nil {
		t.Fatalf("Project error: %v", err)
	}
	want := []SyllableBox{
		{Syllable: "ab", Box: box(0, 0, 9, 10)},
		{Syllable: "cd", Box: box(15, 0, 26, 10)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Project = %+v, want %+v", got, want)
	}
}

func TestProjectDropsGapOnlySyllable(t *testing.T) {
	glyphs := []glyph.Glyph{
		glyph.New('d', box(0, 0, 5, 10)),
		glyph.New('o', box(5, 0, 10, 10)),
	}
	a := mustAlign(t, "do mi", glyphs)
	if got := align.Render(a.OCR, '_'); got != "do___" {
		t.Fatalf("unexpected alignment %q", got)
	}

	syls := []string{"do", "mi"}
	got, err := Project(a, syls, glyphs, Options{})
	if err != nil {
		t.Fatalf("Project error: %v", err)
	}
	if len(got) != 1 || got[0].Syllable != "do" {
		t.Fatalf("expected only \"do\", got %+v", got)
	}
	if len(got) > len(syls) {
		t.Fatalf("more boxes than syllables")
	}
}

func TestProjectKeepsLowerLine(t *testing.T) {
	// a syllable broken across a line end: "ti" ends line one, "bi" starts line two
	glyphs := []glyph.Glyph{
		glyph.New('t', box(300, 10, 305, 40)),
		glyph.New('i', box(305, 10, 310, 40)),
		glyph.New('b', box(0, 60, 6, 90)),
		glyph.New('i', box(6, 60, 10, 90)),
	}
	a := mustAlign(t, "tibi", glyphs)

	got, err := Project(a, []string{"tibi"}, glyphs, Options{})
	if err != nil {
		t.Fatalf("Project error: %v", err)
	}
	want := []SyllableBox{{Syllable: "tibi", Box: box(0, 60, 10, 90)}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Project = %+v, want %+v", got, want)
	}
}

func TestProjectSkipsPlaceholderGlyphs(t *testing.T) {
	glyphs := []glyph.Glyph{
		glyph.New('a', box(0, 0, 5, 10)),
		glyph.Placeholder(' '),
		glyph.New('b', box(9, 0, 14, 10)),
	}
	a := mustAlign(t, "a b", glyphs)

	got, err := Project(a, []string{"a", "b"}, glyphs, Options{})
	if err != nil {
		t.Fatalf("Project error: %v", err)
	}
	want := []SyllableBox{
		{Syllable: "a", Box: box(0, 0, 5, 10)},
		{Syllable: "b", Box: box(9, 0, 14, 10)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Project = %+v, want %+v", got, want)
	}
}

func TestProjectLengthMismatchIsFatal(t *testing.T) {
	glyphs := []glyph.Glyph{
		glyph.New('a', box(0, 0, 5, 10)),
		glyph.New('b', box(5, 0, 8, 10)),
	}
	a := mustAlign(t, "ab", glyphs)

	_, err := Project(a, []string{"ab"}, glyphs[:1], Options{})
	if !errors.Is(err, ErrConsistency) {
		t.Fatalf("expected ErrConsistency, got %v", err)
	}

	extra := append(glyphs, glyph.New('c', box(8, 0, 9, 10)))
	_, err = Project(a, []string{"ab"}, extra, Options{})
	if !errors.Is(err, ErrConsistency) {
		t.Fatalf("expected ErrConsistency for surplus glyphs, got %v", err)
	}
}

func TestProjectUnmatchedSyllableIsFatal(t *testing.T) {
	glyphs := []glyph.Glyph{glyph.New('a', box(0, 0, 5, 10))}
	a := mustAlign(t, "a", glyphs)

	_, err := Project(a, []string{"a", "zz"}, glyphs, Options{})
	var ce *ConsistencyError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConsistencyError, got %v", err)
	}
	if ce.Syllable != "zz" {
		t.Errorf("error names syllable %q, want \"zz\"", ce.Syllable)
	}
}

func TestProjectAppliesRotation(t *testing.T) {
	glyphs := []glyph.Glyph{glyph.New('a', box(60, 50, 60, 50))}
	a := mustAlign(t, "a", glyphs)
	rot := Rotation{Angle: -90, Processed: image.Pt(100, 100), Original: image.Pt(100, 100)}

	got, err := Project(a, []string{"a"}, glyphs, Options{Rotation: rot})
	if err != nil {
		t.Fatalf("Project error: %v", err)
	}
	// undoing -90 rotates by +90 about (50, 50)
	want := box(50, 60, 50, 60)
	if len(got) != 1 || got[0].Box != want {
		t.Errorf("Project = %+v, want box %v", got, want)
	}
}

func TestProjectDeterministic(t *testing.T) {
	glyphs := []glyph.Glyph{
		glyph.New('d', box(0, 0, 5, 10)),
		glyph.New('n', box(5, 0, 10, 10)),
		glyph.New('s', box(10, 0, 15, 10)),
		glyph.New('v', box(20, 0, 25, 10)),
		glyph.New('s', box(25, 0, 30, 10)),
	}
	transcript := "dominus vobiscum"
	syls := []string{"do", "mi", "nus", "vo", "bis", "cum"}
	rot := Rotation{Angle: 1.5, Processed: image.Pt(120, 40), Original: image.Pt(110, 30)}

	first, err := Project(mustAlign(t, transcript, glyphs), syls, glyphs, Options{Rotation: rot})
	if err != nil {
		t.Fatalf("Project error: %v", err)
	}
	second, err := Project(mustAlign(t, transcript, glyphs), syls, glyphs, Options{Rotation: rot})
	if err != nil {
		t.Fatalf("Project error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("runs differ:\n%+v\n%+v", first, second)
	}
	if len(first) > len(syls) {
		t.Errorf("%d boxes for %d syllables", len(first), len(syls))
	}
}

func TestExtend(t *testing.T) {
	glyphs := []glyph.Glyph{
		glyph.New('a', box(0, 0, 1, 1)),
		glyph.New('c', box(2, 0, 3, 1)),
	}
	ocr := []rune{'a', align.Gap, 'c', align.Gap}

	got, err := Extend(glyphs, ocr)
	if err != nil {
		t.Fatalf("Extend error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 glyphs, got %d", len(got))
	}
	if got[1].HasBox() || got[3].HasBox() {
		t.Errorf("gap columns should be placeholders: %v", got)
	}
	if got[2].Box == nil || *got[2].Box != *glyphs[1].Box {
		t.Errorf("column 2 should carry glyph 'c': %v", got[2])
	}
	if len(glyphs) != 2 {
		t.Errorf("input glyph list was modified")
	}

	if _, err := Extend(glyphs, []rune{'a', 'x'}); !errors.Is(err, ErrConsistency) {
		t.Errorf("expected ErrConsistency for a character mismatch, got %v", err)
	}
}
