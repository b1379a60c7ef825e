package project

import (
	"testing"

	"github.com/gardar/textalign/pkg/align"
)

// aligned builds an aligned transcript, '_' standing for a gap
func aligned(s string) []rune {
	out := []rune(s)
	for i, r := range out {
		if r == '_' {
			out[i] = align.Gap
		}
	}
	return out
}

func TestMatchSpan(t *testing.T) {
	tests := []struct {
		name       string
		aligned    string
		syl        string
		from       int
		start, end int
		found      bool
	}{
		{"plain", "dominus", "mi", 0, 2, 4, true},
		{"single letter", "dominus", "o", 2, 3, 4, true},
		{"gaps inside", "do_m__inus", "mi", 0, 3, 7, true},
		{"gaps inside longer syllable", "n_u__s", "nus", 0, 0, 6, true},
		{"leading gap not included", "__nus", "nus", 0, 2, 5, true},
		{"monotonic offset", "do do", "do", 1, 3, 5, true},
		{"restart after failed candidate", "mxmi", "mi", 0, 2, 4, true},
		{"no match", "dominus", "xy", 0, 0, 0, false},
		{"no match after offset", "dominus", "do", 1, 0, 0, false},
		{"pattern characters are literal", "a.*b", ".*", 0, 1, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, found := matchSpan(aligned(tt.aligned), []rune(tt.syl), tt.from)
			if found != tt.found {
				t.Fatalf("found = %v, want %v", found, tt.found)
			}
			if found && (start != tt.start || end != tt.end) {
				t.Errorf("span = [%d,%d), want [%d,%d)", start, end, tt.start, tt.end)
			}
		})
	}
}

func TestMatchSpanLiteralUnderscore(t *testing.T) {
	// a real '_' in the transcript must match only a literal '_'
	seq := []rune{'a', '_', 'b'}
	if _, _, found := matchSpan(seq, []rune("ab"), 0); found {
		t.Errorf("literal underscore was treated as a gap")
	}
	if start, end, found := matchSpan(seq, []rune("a_b"), 0); !found || start != 0 || end != 3 {
		t.Errorf("literal underscore syllable not matched: %d %d %v", start, end, found)
	}
}
