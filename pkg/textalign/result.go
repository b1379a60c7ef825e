package textalign

import (
	"encoding/json"

	"github.com/gardar/textalign/pkg/glyph"
	"github.com/gardar/textalign/pkg/project"
)

// Result is everything computed for one page
type Result struct {
	SyllableBoxes     []project.SyllableBox
	PeakLocations     []int
	MedianLineSpacing float64
}

type boxJSON struct {
	Syllable string `json:"syl"`
	UL       [2]int `json:"ul"`
	LR       [2]int `json:"lr"`
}

type resultJSON struct {
	MedianLineSpacing float64   `json:"median_line_spacing"`
	SyllableBoxes     []boxJSON `json:"syl_boxes"`
	PeakLocations     []int     `json:"peak_locations"`
}

// MarshalJSON writes the result in the form consumed by the downstream tooling
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		MedianLineSpacing: r.MedianLineSpacing,
		SyllableBoxes:     make([]boxJSON, 0, len(r.SyllableBoxes)),
		PeakLocations:     r.PeakLocations,
	}
	if out.PeakLocations == nil {
		out.PeakLocations = []int{}
	}
	for _, sb := range r.SyllableBoxes {
		out.SyllableBoxes = append(out.SyllableBoxes, boxJSON{
			Syllable: sb.Syllable,
			UL:       [2]int{sb.Box.UL.X, sb.Box.UL.Y},
			LR:       [2]int{sb.Box.LR.X, sb.Box.LR.Y},
		})
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a result written by MarshalJSON
func (r *Result) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.MedianLineSpacing = in.MedianLineSpacing
	r.PeakLocations = in.PeakLocations
	r.SyllableBoxes = make([]project.SyllableBox, 0, len(in.SyllableBoxes))
	for _, b := range in.SyllableBoxes {
		r.SyllableBoxes = append(r.SyllableBoxes, project.SyllableBox{
			Syllable: b.Syllable,
			Box:      glyphBox(b.UL, b.LR),
		})
	}
	return nil
}

func glyphBox(ul, lr [2]int) glyph.BoundingBox {
	return glyph.NewBoundingBox(ul[0], ul[1], lr[0], lr[1])
}
