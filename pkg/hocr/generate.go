package hocr

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"text/template"

	"github.com/gardar/textalign/pkg/project"
)

//go:embed templates/hocr.tmpl
var templateFS embed.FS

var hocrTemplate = template.Must(template.New("hocr.tmpl").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/hocr.tmpl"))

// GenerateHOCRDocument renders an hOCR HTML document from the HOCR struct
func GenerateHOCRDocument(doc *HOCR) (string, error) {
	var buf bytes.Buffer
	if err := hocrTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("error rendering hOCR template: %w", err)
	}
	return buf.String(), nil
}

// FromSyllableBoxes builds a single-page hOCR document from syllable boxes. Each syllable
// becomes an ocrx_word; syllables sharing a top coordinate are grouped into one ocr_line,
// lines ordered top to bottom and syllables kept in their given order.
func FromSyllableBoxes(boxes []project.SyllableBox, width, height int) *HOCR {
	byTop := make(map[int][]project.SyllableBox)
	var tops []int
	for _, sb := range boxes {
		top := sb.Box.UL.Y
		if _, seen := byTop[top]; !seen {
			tops = append(tops, top)
		}
		byTop[top] = append(byTop[top], sb)
	}
	sort.Ints(tops)

	page := Page{
		ID:         "page_1",
		PageNumber: 1,
		BBox:       NewBoundingBox(0, 0, float64(width), float64(height)),
	}
	for li, top := range tops {
		line := Line{ID: fmt.Sprintf("line_1_%d", li+1)}
		for _, sb := range byTop[top] {
			b := FromGlyphBox(sb.Box)
			line.BBox = line.BBox.Union(b)
			line.Words = append(line.Words, Word{
				ID:   fmt.Sprintf("word_1_%d", len(line.Words)+1),
				Text: sb.Syllable,
				BBox: b,
			})
		}
		page.Lines = append(page.Lines, line)
	}

	return &HOCR{
		Title:    "syllable boxes",
		Metadata: map[string]string{"ocr-system": "textalign", "ocr-capabilities": "ocr_page ocr_line ocrx_word"},
		Pages:    []Page{page},
	}
}
