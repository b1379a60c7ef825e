package glyph

import (
	"encoding/json"
	"fmt"
	"image"
	"unicode/utf8"
)

// glyphJSON is the wire form of a Glyph: {"char":"a","ul":[x,y],"lr":[x,y]}.
// Placeholders omit both corners.
type glyphJSON struct {
	Char string  `json:"char"`
	UL   *[2]int `json:"ul,omitempty"`
	LR   *[2]int `json:"lr,omitempty"`
}

// MarshalJSON encodes the glyph with its corners as [x, y] pairs
func (g Glyph) MarshalJSON() ([]byte, error) {
	out := glyphJSON{Char: string(g.Char)}
	if g.Box != nil {
		out.UL = &[2]int{g.Box.UL.X, g.Box.UL.Y}
		out.LR = &[2]int{g.Box.LR.X, g.Box.LR.Y}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a glyph. The char must hold exactly one character, and either both
// corners or neither must be present.
func (g *Glyph) UnmarshalJSON(data []byte) error {
	var in glyphJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if utf8.RuneCountInString(in.Char) != 1 {
		return fmt.Errorf("glyph char %q must be a single character", in.Char)
	}
	r, _ := utf8.DecodeRuneInString(in.Char)

	switch {
	case in.UL == nil && in.LR == nil:
		*g = Placeholder(r)
	case in.UL != nil && in.LR != nil:
		*g = New(r, BoundingBox{UL: image.Pt(in.UL[0], in.UL[1]), LR: image.Pt(in.LR[0], in.LR[1])})
	default:
		return fmt.Errorf("glyph %q needs both ul and lr", in.Char)
	}
	return nil
}
