package gdocai

import (
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/textalign/pkg/hocr"
)

// CreateHOCRDocument converts a Document AI response into an hOCR document, one page per
// Document AI page
func CreateHOCRDocument(doc *documentaipb.Document) *hocr.HOCR {
	result := &hocr.HOCR{
		Title: "Document OCR",
		Metadata: map[string]string{
			"ocr-system":          "Document AI OCR",
			"ocr-number-of-pages": fmt.Sprintf("%d", len(doc.GetPages())),
			"ocr-capabilities":    "ocrp_lang ocrp_wconf ocr_page ocr_carea ocr_par ocr_line ocrx_word ocrx_cinfo",
		},
	}
	text := []rune(doc.GetText())
	for i, page := range doc.GetPages() {
		pageNumber := int(page.PageNumber)
		if pageNumber == 0 {
			pageNumber = i + 1
		}
		result.Pages = append(result.Pages, CreateHOCRPage(page, text, pageNumber))
	}
	if langs := documentLanguages(doc); len(langs) > 0 {
		result.Language = langs[0]
		result.Metadata["ocr-langs"] = strings.Join(langs, ", ")
	}
	return result
}

// CreateHOCRPage converts a single Document AI page to an hOCR page.
//
// Blocks become areas and paragraphs stay paragraphs; each line holds the tokens whose text
// lies within it as words, and each word holds the page symbols within the token as
// characters. Paragraphs outside any block and lines outside any paragraph are attached to
// the page directly.
func CreateHOCRPage(page *documentaipb.Document_Page, text []rune, pageNumber int) hocr.Page {
	c := pageConverter{page: page, text: text, number: pageNumber, assigned: map[int]bool{}}

	out := hocr.Page{
		ID:         fmt.Sprintf("page_%d", pageNumber),
		PageNumber: pageNumber,
		Metadata:   map[string]string{},
	}
	if dim := page.GetDimension(); dim != nil {
		out.BBox = hocr.NewBoundingBox(0, 0, float64(dim.Width), float64(dim.Height))
	}
	if len(page.DetectedLanguages) > 0 {
		out.Lang = page.DetectedLanguages[0].LanguageCode
	}

	inBlock := map[int]bool{}
	for bi, block := range page.Blocks {
		area := hocr.Area{ID: fmt.Sprintf("block_%d_%d", pageNumber, bi+1), Metadata: map[string]string{}}
		area.BBox, _ = layoutBox(block.Layout, page.Dimension)
		for pi, par := range page.Paragraphs {
			if !isElementInParent(par.Layout, block.Layout) {
				continue
			}
			inBlock[pi] = true
			area.Paragraphs = append(area.Paragraphs, c.paragraph(pi, par))
		}
		out.Areas = append(out.Areas, area)
	}
	for pi, par := range page.Paragraphs {
		if !inBlock[pi] {
			out.Paragraphs = append(out.Paragraphs, c.paragraph(pi, par))
		}
	}
	for li, line := range page.Lines {
		if !c.assigned[li] {
			out.Lines = append(out.Lines, c.line(li, line))
		}
	}
	return out
}

type pageConverter struct {
	page     *documentaipb.Document_Page
	text     []rune
	number   int
	assigned map[int]bool // line indexes already placed in a paragraph
}

func (c *pageConverter) paragraph(pi int, par *documentaipb.Document_Page_Paragraph) hocr.Paragraph {
	out := hocr.Paragraph{ID: fmt.Sprintf("par_%d_%d", c.number, pi+1), Metadata: map[string]string{}}
	out.BBox, _ = layoutBox(par.Layout, c.page.Dimension)
	for li, line := range c.page.Lines {
		if c.assigned[li] || !isElementInParent(line.Layout, par.Layout) {
			continue
		}
		c.assigned[li] = true
		out.Lines = append(out.Lines, c.line(li, line))
	}
	return out
}

func (c *pageConverter) line(li int, line *documentaipb.Document_Page_Line) hocr.Line {
	out := hocr.Line{ID: fmt.Sprintf("line_%d_%d", c.number, li+1), Metadata: map[string]string{}}
	out.BBox, _ = layoutBox(line.Layout, c.page.Dimension)
	if len(line.DetectedLanguages) > 0 {
		out.Lang = line.DetectedLanguages[0].LanguageCode
	}
	for ti, token := range c.page.Tokens {
		if isElementInParent(token.Layout, line.Layout) {
			out.Words = append(out.Words, c.word(ti, token))
		}
	}
	return out
}

func (c *pageConverter) word(ti int, token *documentaipb.Document_Page_Token) hocr.Word {
	out := hocr.Word{
		ID:       fmt.Sprintf("word_%d_%d", c.number, ti+1),
		Text:     strings.TrimSpace(textFromLayout(token.Layout, c.text)),
		Metadata: map[string]string{},
	}
	out.BBox, _ = layoutBox(token.Layout, c.page.Dimension)
	if token.Layout != nil {
		out.Confidence = float64(token.Layout.Confidence * 100)
	}
	if len(token.DetectedLanguages) > 0 {
		out.Lang = token.DetectedLanguages[0].LanguageCode
	}

	for si, sym := range c.page.Symbols {
		if !isElementInParent(sym.Layout, token.Layout) {
			continue
		}
		ch := strings.TrimSpace(textFromLayout(sym.Layout, c.text))
		if ch == "" {
			continue
		}
		box, ok := layoutBox(sym.Layout, c.page.Dimension)
		if !ok {
			continue
		}
		out.Chars = append(out.Chars, hocr.Char{
			ID:         fmt.Sprintf("symbol_%d_%d", c.number, si+1),
			Text:       ch,
			BBox:       box,
			Confidence: float64(sym.GetLayout().GetConfidence() * 100),
		})
	}
	return out
}

// documentLanguages lists the languages detected on pages and tokens, most frequent first
func documentLanguages(doc *documentaipb.Document) []string {
	count := make(map[string]int)
	for _, page := range doc.GetPages() {
		for _, lang := range page.DetectedLanguages {
			count[lang.LanguageCode]++
		}
		for _, token := range page.Tokens {
			for _, lang := range token.DetectedLanguages {
				count[lang.LanguageCode]++
			}
		}
	}
	langs := make([]string, 0, len(count))
	for lang := range count {
		if lang != "" {
			langs = append(langs, lang)
		}
	}
	sort.Slice(langs, func(i, j int) bool {
		if count[langs[i]] != count[langs[j]] {
			return count[langs[i]] > count[langs[j]]
		}
		return langs[i] < langs[j]
	})
	return langs
}
