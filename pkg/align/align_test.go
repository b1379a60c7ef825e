package align

import (
	"errors"
	"math/rand"
	"testing"
	"unicode"
)

func mustFour(t *testing.T, match, mismatch, open, extend float64) ScoringSystem {
	t.Helper()
	s, err := FourCost(match, mismatch, open, extend)
	if err != nil {
		t.Fatalf("FourCost error: %v", err)
	}
	return s
}

func TestAlign(t *testing.T) {
	four := mustFour(t, 10, -5, -10, -1)
	six := DefaultScoring()

	tests := []struct {
		name    string
		a, b    string
		scoring ScoringSystem
		wantA   string
		wantB   string
		score   float64
	}{
		{"single gap run", "ABC", "AC", four, "ABC", "A_C", 9},
		{"identical", "dominus", "dominus", four, "dominus", "dominus", 70},
		{"abbreviated ocr", "dominus", "dnus", four, "dominus", "d___nus", 27},
		{"leading gaps on tie", "AAAA", "AA", four, "AAAA", "__AA", 18},
		{"empty transcript", "", "abc", four, "___", "abc", -3},
		{"empty ocr", "ab", "", four, "ab", "__", -2},
		{"both empty", "", "", four, "", "", 0},
		{"mismatch at ends", "abcdef", "xbcdex", four, "_abcdef", "x_bcdex", 33},
		{"spaces dropped by ocr", "et in terra", "etinterra", six, "et in terra", "et_in_terra", 52},
		{"substitution and deletion", "gloria patri", "gl0ria ptri", six, "gloria patri", "gl0ria p_tri", 66},
		{"doubled letter", "alleluia", "allleuia", six, "alleluia", "allleuia", 40},
		{"repeated ocr", "dominus", "dominusdominus", four, "_______dominus", "dominusdominus", 63},
		{"syllable gaps", "do mi nus", "domnus", four, "do mi nus", "do_m__nus", 37},
		{"asymmetric extend", "kitten", "sitting", six, "_kitten_", "s_itting", 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Align([]rune(tt.a), []rune(tt.b), tt.scoring)
			if err != nil {
				t.Fatalf("Align error: %v", err)
			}
			if a := Render(got.Transcript, '_'); a != tt.wantA {
				t.Errorf("transcript side = %q, want %q", a, tt.wantA)
			}
			if b := Render(got.OCR, '_'); b != tt.wantB {
				t.Errorf("ocr side = %q, want %q", b, tt.wantB)
			}
			if got.Score != tt.score {
				t.Errorf("score = %v, want %v", got.Score, tt.score)
			}
		})
	}
}

func TestAlignAffineGapCost(t *testing.T) {
	s := mustFour(t, 10, -5, -10, -1)
	got, err := Align([]rune("ABC"), []rune("AC"), s)
	if err != nil {
		t.Fatalf("Align error: %v", err)
	}
	// two matches plus a single gap run of length one
	want := 2*10 + s.GapCost(1)
	if got.Score != want {
		t.Errorf("score = %v, want %v", got.Score, want)
	}
	if runs := gapRuns(got.OCR); runs != 1 {
		t.Errorf("expected one gap run, got %d in %q", runs, Render(got.OCR, '_'))
	}

	// a run of three costs open + 3*extend, not three opens
	got, err = Align([]rune("ABCDE"), []rune("AE"), s)
	if err != nil {
		t.Fatalf("Align error: %v", err)
	}
	if want := 2*10 + s.GapCost(3); got.Score != want {
		t.Errorf("score = %v, want %v", got.Score, want)
	}
	if runs := gapRuns(got.OCR); runs != 1 {
		t.Errorf("expected one gap run, got %d in %q", runs, Render(got.OCR, '_'))
	}
}

func TestAlignIdenticalHasNoGaps(t *testing.T) {
	s := mustFour(t, 10, -5, -10, -1)
	text := []rune("in principio erat verbum et verbum erat apud deum")
	got, err := Align(text, text, s)
	if err != nil {
		t.Fatalf("Align error: %v", err)
	}
	if got.Len() != len(text) {
		t.Fatalf("expected %d columns, got %d", len(text), got.Len())
	}
	for i := range text {
		if got.Transcript[i] != text[i] || got.OCR[i] != text[i] {
			t.Fatalf("column %d is not a match: %q / %q", i, got.Transcript[i], got.OCR[i])
		}
	}
}

func TestAlignInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune("abcde ")
	random := func(n int) []rune {
		out := make([]rune, n)
		for i := range out {
			out[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return out
	}
	systems := []ScoringSystem{DefaultScoring(), mustFour(t, 10, -5, -10, -1), mustFour(t, 1, -1, 0, -1)}

	for round := 0; round < 200; round++ {
		a, b := random(rng.Intn(25)), random(rng.Intn(25))
		s := systems[round%len(systems)]
		got, err := Align(a, b, s)
		if err != nil {
			t.Fatalf("Align error: %v", err)
		}
		if len(got.Transcript) != len(got.OCR) {
			t.Fatalf("unequal lengths %d / %d", len(got.Transcript), len(got.OCR))
		}
		if string(Strip(got.Transcript)) != string(a) {
			t.Fatalf("transcript not recovered: %q vs %q", string(Strip(got.Transcript)), string(a))
		}
		if string(Strip(got.OCR)) != string(b) {
			t.Fatalf("ocr not recovered: %q vs %q", string(Strip(got.OCR)), string(b))
		}
		for i := range got.Transcript {
			if got.Transcript[i] == Gap && got.OCR[i] == Gap {
				t.Fatalf("column %d has gaps on both sides", i)
			}
		}
	}
}

func TestAlignDeterministic(t *testing.T) {
	a, b := []rune("sancta maria mater dei"), []rune("s.ncta mria matcr dei")
	first, err := Align(a, b, DefaultScoring())
	if err != nil {
		t.Fatalf("Align error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Align(a, b, DefaultScoring())
		if err != nil {
			t.Fatalf("Align error: %v", err)
		}
		if again.String() != first.String() || again.Score != first.Score {
			t.Fatalf("run %d differs:\n%s\nvs\n%s", i, again, first)
		}
	}
}

func TestAlignCustomScorer(t *testing.T) {
	caseless := func(a, b rune) float64 {
		if unicode.ToLower(a) == unicode.ToLower(b) {
			return 10
		}
		return -5
	}
	s, err := Custom(caseless, -10, -10, -1, -1)
	if err != nil {
		t.Fatalf("Custom error: %v", err)
	}
	got, err := Align([]rune("Dominus"), []rune("dOMINUS"), s)
	if err != nil {
		t.Fatalf("Align error: %v", err)
	}
	if gapRuns(got.Transcript)+gapRuns(got.OCR) != 0 {
		t.Errorf("expected no gaps, got\n%s", got)
	}
	if got.Score != 70 {
		t.Errorf("score = %v, want 70", got.Score)
	}
}

func TestAlignRejectsUnbuiltScoring(t *testing.T) {
	_, err := Align([]rune("a"), []rune("a"), ScoringSystem{})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigurationError, got %T", err)
	}
}

func gapRuns(seq []rune) int {
	runs := 0
	for i, r := range seq {
		if r == Gap && (i == 0 || seq[i-1] != Gap) {
			runs++
		}
	}
	return runs
}
