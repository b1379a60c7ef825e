package hocr

import (
	"strings"
)

// PageLines returns every text line of the page in reading order: areas first, then
// paragraphs and lines placed directly on the page. Words sitting in an area or paragraph
// without a line parent are gathered into one line spanning their container.
func PageLines(page Page) []Line {
	var lines []Line
	for _, area := range page.Areas {
		for _, par := range area.Paragraphs {
			lines = appendParagraph(lines, par)
		}
		lines = append(lines, area.Lines...)
		if len(area.Words) > 0 {
			lines = append(lines, Line{ID: area.ID, BBox: area.BBox, Words: area.Words})
		}
	}
	for _, par := range page.Paragraphs {
		lines = appendParagraph(lines, par)
	}
	return append(lines, page.Lines...)
}

func appendParagraph(lines []Line, par Paragraph) []Line {
	lines = append(lines, par.Lines...)
	if len(par.Words) > 0 {
		lines = append(lines, Line{ID: par.ID, BBox: par.BBox, Words: par.Words})
	}
	return lines
}

// ExtractHOCRText extracts all text from an hOCR document.
// Lines end with a newline and pages are separated by a blank line.
func ExtractHOCRText(hocrDoc *HOCR) string {
	var builder strings.Builder
	for i, page := range hocrDoc.Pages {
		if i > 0 {
			builder.WriteString("\n")
		}
		for _, line := range PageLines(page) {
			words := make([]string, 0, len(line.Words))
			for _, w := range line.Words {
				words = append(words, w.Text)
			}
			builder.WriteString(strings.Join(words, " "))
			builder.WriteString("\n")
		}
	}
	return builder.String()
}
