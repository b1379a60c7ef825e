// Package syllable splits Latin text into syllables.
//
// Words are first broken into units: the consonant clusters and diphthongs of the
// catalogue are kept whole, everything else becomes a single letter. Vowel and diphthong
// units are nuclei; the remaining units are attached to the nucleus after them, then to the
// nucleus before them, until every unit is anchored to a nucleus.
//
// Main Functions:
//
// - Syllabify: syllables of a whitespace-separated text, flattened in reading order
// - SyllabifyWord: syllables of a single word
// - Abbreviations: the scribal abbreviation table used by the OCR front end
package syllable

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// MaxMergeIterations bounds the nucleus merge loop of SyllabifyWord
const MaxMergeIterations = 100

// ErrNonConvergence is returned when the merge loop does not settle within MaxMergeIterations
var ErrNonConvergence = errors.New("syllabification did not converge")

// Syllabify splits text on spaces and returns the syllables of every word in order.
// Word boundaries are not kept.
func Syllabify(text string) ([]string, error) {
	var syls []string
	for _, word := range strings.Split(text, " ") {
		ws, err := SyllabifyWord(word)
		if err != nil {
			return nil, err
		}
		syls = append(syls, ws...)
	}
	return syls, nil
}

// unit is one piece of a word during syllabification
type unit struct {
	text    string
	nucleus bool
}

// SyllabifyWord returns the syllables of a single word.
// Whitespace is removed and the word is lowercased first. An empty word has no syllables;
// a one-letter word and a word without any vowel are returned whole.
func SyllabifyWord(word string) ([]string, error) {
	word = strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, word))

	if word == "" {
		return nil, nil
	}
	if split, ok := exceptions[word]; ok {
		return append([]string(nil), split...), nil
	}
	if len([]rune(word)) <= 1 {
		return []string{word}, nil
	}

	units := tokenize(word)

	hasNucleus := false
	for _, u := range units {
		if u.nucleus {
			hasNucleus = true
			break
		}
	}
	if !hasNucleus {
		return []string{word}, nil
	}

	for iter := 0; !allNuclei(units); iter++ {
		if iter == MaxMergeIterations {
			return nil, fmt.Errorf("%w: %q after %d iterations", ErrNonConvergence, word, iter)
		}
		units = mergeForward(units)
		units = mergeBackward(units)
	}

	syls := make([]string, len(units))
	for i, u := range units {
		syls[i] = u.text
	}
	return syls, nil
}

// tokenize breaks a word into atomic units and single letters, then tags the nuclei.
// Each catalogue entry is applied in turn to the segments not yet claimed by an earlier entry.
func tokenize(word string) []unit {
	type segment struct {
		text   string
		atomic bool
	}
	segs := []segment{{text: word}}
	for _, cluster := range catalogue {
		var next []segment
		for _, s := range segs {
			if s.atomic || !strings.Contains(s.text, cluster) {
				next = append(next, s)
				continue
			}
			parts := strings.Split(s.text, cluster)
			for i, p := range parts {
				if p != "" {
					next = append(next, segment{text: p})
				}
				if i < len(parts)-1 {
					next = append(next, segment{text: cluster, atomic: true})
				}
			}
		}
		segs = next
	}

	var units []unit
	for _, s := range segs {
		if s.atomic {
			units = append(units, unit{text: s.text, nucleus: isNucleus(s.text)})
			continue
		}
		for _, r := range s.text {
			units = append(units, unit{text: string(r), nucleus: isNucleus(string(r))})
		}
	}
	return units
}

// mergeForward attaches every non-nucleus unit to a nucleus directly after it
func mergeForward(units []unit) []unit {
	out := make([]unit, 0, len(units))
	for i := 0; i < len(units); i++ {
		if i+1 < len(units) && !units[i].nucleus && units[i+1].nucleus {
			out = append(out, unit{text: units[i].text + units[i+1].text, nucleus: true})
			i++
			continue
		}
		out = append(out, units[i])
	}
	return out
}

// mergeBackward attaches a non-nucleus unit to a nucleus directly before it
func mergeBackward(units []unit) []unit {
	out := make([]unit, 0, len(units))
	for i := 0; i < len(units); i++ {
		if i+1 < len(units) && units[i].nucleus && !units[i+1].nucleus {
			out = append(out, unit{text: units[i].text + units[i+1].text, nucleus: true})
			i++
			continue
		}
		out = append(out, units[i])
	}
	return out
}

func allNuclei(units []unit) bool {
	for _, u := range units {
		if !u.nucleus {
			return false
		}
	}
	return true
}
