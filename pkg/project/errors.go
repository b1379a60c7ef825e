package project

import (
	"errors"
	"fmt"
)

// ErrConsistency is the sentinel wrapped by every ConsistencyError
var ErrConsistency = errors.New("alignment inconsistent with glyphs")

// ConsistencyError reports that the alignment, the syllables and the glyph list do not
// describe the same page. It only arises from a broken upstream contract, and the whole page
// is rejected.
type ConsistencyError struct {
	Reason   string
	Syllable string // Set when a syllable could not be located in the alignment
}

func (e *ConsistencyError) Error() string {
	if e.Syllable != "" {
		return fmt.Sprintf("%s: %s (syllable %q)", ErrConsistency, e.Reason, e.Syllable)
	}
	return fmt.Sprintf("%s: %s", ErrConsistency, e.Reason)
}

// Unwrap lets errors.Is match ErrConsistency
func (e *ConsistencyError) Unwrap() error { return ErrConsistency }
