// Package align implements global sequence alignment under an affine gap penalty.
//
// The aligner is used to pair a trusted transcript with the noisy character stream produced
// by an OCR engine. It fills three dynamic programming tables:
//
// - M: best score of a path ending with a matched or mismatched pair
// - X: best score of a path ending with a gap that consumes only the first sequence
// - Y: best score of a path ending with a gap that consumes only the second sequence
//
// and traces the optimal path back from the bottom-right cell. Ties between predecessors are
// broken deterministically in the order M, X, Y.
//
// Both sequences get a trailing Sentinel symbol before alignment and the traceback is forced
// to start by pairing the two sentinels, whatever the tables say about that cell. The
// sentinel column is removed from the result.
//
// Time and memory are O(n·m). A page of a few thousand characters on each side needs tens of
// millions of cells, which is the practical limit of this implementation; banded or
// linear-space alignment would lift it.
package align

import (
	"strings"
)

// Gap marks a position where one sequence has no symbol. It is not a valid rune, so it never
// collides with input text.
const Gap rune = -1

// Sentinel is appended to both sequences before alignment
const Sentinel rune = ' '

// unreachable stands in for minus infinity on the table boundaries
const unreachable = -1e100

// Table / predecessor identifiers, in tie-break order
const (
	fromM uint8 = iota
	fromX
	fromY
)

// Alignment is the result of Align: two equal-length sequences in which Gap marks the
// positions where one side has no symbol. No position holds Gap on both sides.
type Alignment struct {
	Transcript []rune  // First sequence with gaps inserted
	OCR        []rune  // Second sequence with gaps inserted
	Score      float64 // Score of the alignment, excluding the sentinel pair
}

// Len returns the number of aligned columns
func (a Alignment) Len() int { return len(a.Transcript) }

// String renders the alignment as two lines, gaps shown as '_'
func (a Alignment) String() string {
	return Render(a.Transcript, '_') + "\n" + Render(a.OCR, '_')
}

// Render converts an aligned sequence to a string, replacing gaps with filler
func Render(seq []rune, filler rune) string {
	var b strings.Builder
	for _, r := range seq {
		if r == Gap {
			r = filler
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Strip removes the gaps from an aligned sequence
func Strip(seq []rune) []rune {
	out := make([]rune, 0, len(seq))
	for _, r := range seq {
		if r != Gap {
			out = append(out, r)
		}
	}
	return out
}

// Align computes a globally optimal alignment of a against b.
// A ScoringSystem that was not built by one of the constructors is rejected with a
// ConfigurationError before any table is allocated.
func Align(a, b []rune, s ScoringSystem) (Alignment, error) {
	if err := s.validate(); err != nil {
		return Alignment{}, err
	}

	a = append(append(make([]rune, 0, len(a)+1), a...), Sentinel)
	b = append(append(make([]rune, 0, len(b)+1), b...), Sentinel)
	t := fill(a, b, s)

	n, m := len(a), len(b)
	ta := make([]rune, 0, n+m)
	ob := make([]rune, 0, n+m)

	// the sentinel pair is taken as a match unconditionally
	i, j, state := n, m, fromM
	for i > 0 && j > 0 {
		switch state {
		case fromM:
			ta = append(ta, a[i-1])
			ob = append(ob, b[j-1])
			state = t.pm[t.at(i, j)]
			i--
			j--
		case fromX:
			ta = append(ta, a[i-1])
			ob = append(ob, Gap)
			state = t.px[t.at(i, j)]
			i--
		case fromY:
			ta = append(ta, Gap)
			ob = append(ob, b[j-1])
			state = t.py[t.at(i, j)]
			j--
		}
	}
	for ; j > 0; j-- {
		ta = append(ta, Gap)
		ob = append(ob, b[j-1])
	}
	for ; i > 0; i-- {
		ta = append(ta, a[i-1])
		ob = append(ob, Gap)
	}

	// drop the sentinel pair, collected first, then restore reading order
	ta, ob = ta[1:], ob[1:]
	reverse(ta)
	reverse(ob)

	return Alignment{
		Transcript: ta,
		OCR:        ob,
		Score:      t.m[t.at(n, m)] - s.Score(Sentinel, Sentinel),
	}, nil
}

// tables holds the three score tables and their predecessor pointers in row-major order
type tables struct {
	cols       int
	m, x, y    []float64
	pm, px, py []uint8
}

func (t *tables) at(i, j int) int { return i*t.cols + j }

func fill(a, b []rune, s ScoringSystem) *tables {
	rows, cols := len(a)+1, len(b)+1
	size := rows * cols
	t := &tables{
		cols: cols,
		m:    make([]float64, size),
		x:    make([]float64, size),
		y:    make([]float64, size),
		pm:   make([]uint8, size),
		px:   make([]uint8, size),
		py:   make([]uint8, size),
	}

	for i := 0; i < rows; i++ {
		k := t.at(i, 0)
		t.m[k] = s.extendX * float64(i)
		t.x[k] = unreachable
		t.y[k] = s.extendX * float64(i)
	}
	for j := 0; j < cols; j++ {
		k := t.at(0, j)
		t.m[k] = s.extendY * float64(j)
		t.x[k] = s.extendY * float64(j)
		t.y[k] = unreachable
	}

	openExtX := s.openX + s.extendX
	openExtY := s.openY + s.extendY
	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			k := t.at(i, j)
			diag := t.at(i-1, j-1)
			up := t.at(i-1, j)
			left := t.at(i, j-1)

			best, from := max3(t.m[diag], t.x[diag], t.y[diag])
			t.m[k] = best + s.score(a[i-1], b[j-1])
			t.pm[k] = from

			t.x[k], t.px[k] = max3(t.m[up]+openExtX, t.x[up]+s.extendX, t.y[up]+openExtX)
			t.y[k], t.py[k] = max3(t.m[left]+openExtY, t.x[left]+openExtY, t.y[left]+s.extendY)
		}
	}
	return t
}

// max3 returns the largest value and which table it came from; the first wins on ties
func max3(vm, vx, vy float64) (float64, uint8) {
	best, from := vm, fromM
	if vx > best {
		best, from = vx, fromX
	}
	if vy > best {
		best, from = vy, fromY
	}
	return best, from
}

func reverse(s []rune) {
	for l, r := 0, len(s)-1; l < r; l, r = l+1, r-1 {
		s[l], s[r] = s[r], s[l]
	}
}
