package hocr

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ParseHOCR converts raw hOCR data into a structured HOCR object.
// Documents declaring a Latin-1 or Windows-1252 charset are decoded to UTF-8 first.
func ParseHOCR(data []byte) (HOCR, error) {
	result := HOCR{Metadata: make(map[string]string)}

	decoded, err := decode(data)
	if err != nil {
		return result, err
	}
	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return result, fmt.Errorf("failed to parse hOCR html: %w", err)
	}

	extractDocumentMeta(&result, doc)

	for _, n := range collect(doc, kindPage) {
		result.Pages = append(result.Pages, processPage(n))
	}
	if len(result.Pages) == 0 {
		return result, fmt.Errorf("no ocr_page elements found in hOCR data")
	}
	return result, nil
}

// declaredCharset returns the lowercased charset named in a meta tag, or "" if none
func declaredCharset(data []byte) string {
	const marker = "charset="
	lower := bytes.ToLower(data)
	idx := bytes.Index(lower, []byte(marker))
	if idx < 0 {
		return ""
	}
	rest := lower[idx+len(marker):]
	rest = bytes.TrimLeft(rest, "\"' ")
	end := bytes.IndexAny(rest, "\"';> /")
	if end < 0 {
		end = len(rest)
	}
	return string(rest[:end])
}

func decode(data []byte) ([]byte, error) {
	var enc encoding.Encoding
	switch cs := declaredCharset(data); cs {
	case "", "utf-8", "utf8":
		return data, nil
	case "iso-8859-1", "latin1", "latin-1":
		enc = charmap.ISO8859_1
	case "iso-8859-15":
		enc = charmap.ISO8859_15
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	default:
		return nil, fmt.Errorf("unsupported hOCR charset %q", cs)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hOCR data: %w", err)
	}
	return decoded, nil
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts a bounding box from a title string
// Returns nil if the title has no complete bbox property
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	bbox, ok := ParseTitle(title)["bbox"]
	if !ok || len(bbox) < 4 {
		return nil
	}
	result := boxFromFields(bbox)
	return &result
}

func boxFromFields(f []string) BoundingBox {
	var v [4]float64
	for i := range v {
		v[i], _ = strconv.ParseFloat(f[i], 64)
	}
	return NewBoundingBox(v[0], v[1], v[2], v[3])
}

// parseCharBoxes reads Tesseract's x_bboxes property: four coordinates per character
func parseCharBoxes(fields []string) []BoundingBox {
	boxes := make([]BoundingBox, 0, len(fields)/4)
	for i := 0; i+4 <= len(fields); i += 4 {
		boxes = append(boxes, boxFromFields(fields[i:i+4]))
	}
	return boxes
}

// element holds the attributes every hOCR element carries
type element struct {
	id    string
	lang  string
	title string
	bbox  BoundingBox
	props map[string][]string
}

func readElement(n *html.Node) element {
	e := element{props: map[string][]string{}}
	for _, attr := range n.Attr {
		switch attr.Key {
		case "id":
			e.id = attr.Val
		case "lang":
			e.lang = attr.Val
		case "title":
			e.title = attr.Val
			e.props = ParseTitle(attr.Val)
			if b := ParseBoundingBoxFromTitle(attr.Val); b != nil {
				e.bbox = *b
			}
		}
	}
	return e
}

// metadata joins the remaining title properties, skipping the listed keys
func (e element) metadata(skip ...string) map[string]string {
	md := make(map[string]string)
	for k, v := range e.props {
		if k == "bbox" || contains(skip, k) {
			continue
		}
		md[k] = strings.Join(v, " ")
	}
	return md
}

func (e element) float(key string) float64 {
	v, ok := e.props[key]
	if !ok || len(v) == 0 {
		return 0
	}
	f, _ := strconv.ParseFloat(v[0], 64)
	return f
}

// kinds of hOCR elements the parser understands
const (
	kindPage = "page"
	kindArea = "area"
	kindPar  = "par"
	kindLine = "line"
	kindWord = "word"
	kindChar = "char"
)

// classKinds maps hOCR classes to element kinds. Floats, headers and captions are read as lines.
var classKinds = map[string]string{
	"ocr_page":      kindPage,
	"ocr_carea":     kindArea,
	"ocr_par":       kindPar,
	"ocr_line":      kindLine,
	"ocr_textfloat": kindLine,
	"ocr_header":    kindLine,
	"ocr_caption":   kindLine,
	"ocrx_word":     kindWord,
	"ocrx_cinfo":    kindChar,
}

// kindOf returns the kind of n, or "" for elements outside the hOCR hierarchy
func kindOf(n *html.Node) string {
	if n.Type != html.ElementNode {
		return ""
	}
	for _, c := range strings.Fields(getAttrVal(n, "class")) {
		if k, ok := classKinds[c]; ok {
			return k
		}
	}
	return ""
}

// collect returns, in document order, the descendants of n of one of the given kinds.
// The search does not descend into a matched element.
func collect(n *html.Node, kinds ...string) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if k := kindOf(c); k != "" && contains(kinds, k) {
				found = append(found, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return found
}

// extractDocumentMeta extracts document-level metadata from the html and head elements
func extractDocumentMeta(result *HOCR, doc *html.Node) {
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				if lang := getAttrVal(n, "lang"); lang != "" {
					result.Language = lang
				} else if lang := getAttrVal(n, "xml:lang"); lang != "" {
					result.Language = lang
				}
			case "title":
				if n.FirstChild != nil {
					result.Title = n.FirstChild.Data
				}
			case "meta":
				name, content := getAttrVal(n, "name"), getAttrVal(n, "content")
				switch {
				case name == "" || content == "":
				case strings.HasPrefix(name, "ocr-"):
					result.Metadata[name] = content
				case name == "description":
					result.Description = content
				case name == "dc.language":
					result.Language = content
				}
			case "body":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
}

func processPage(n *html.Node) Page {
	e := readElement(n)
	page := Page{
		ID:       e.id,
		Lang:     e.lang,
		Title:    e.title,
		BBox:     e.bbox,
		Metadata: e.metadata("image", "ppageno"),
	}
	if image, ok := e.props["image"]; ok && len(image) > 0 {
		page.ImageName = strings.Trim(strings.Join(image, " "), "\"")
	}
	if ppageno, ok := e.props["ppageno"]; ok && len(ppageno) > 0 {
		page.PageNumber, _ = strconv.Atoi(ppageno[0])
	}

	for _, c := range collect(n, kindArea, kindPar, kindLine, kindWord) {
		switch kindOf(c) {
		case kindArea:
			page.Areas = append(page.Areas, processArea(c))
		case kindPar:
			page.Paragraphs = append(page.Paragraphs, processParagraph(c))
		case kindLine:
			page.Lines = append(page.Lines, processLine(c))
		case kindWord:
			// words without any container get a line of their own
			w := processWord(c)
			page.Lines = append(page.Lines, Line{BBox: w.BBox, Words: []Word{w}, Metadata: map[string]string{}})
		}
	}
	return page
}

func processArea(n *html.Node) Area {
	e := readElement(n)
	area := Area{ID: e.id, Lang: e.lang, BBox: e.bbox, Metadata: e.metadata()}

	for _, c := range collect(n, kindPar, kindLine, kindWord) {
		switch kindOf(c) {
		case kindPar:
			area.Paragraphs = append(area.Paragraphs, processParagraph(c))
		case kindLine:
			area.Lines = append(area.Lines, processLine(c))
		case kindWord:
			area.Words = append(area.Words, processWord(c))
		}
	}
	return area
}

func processParagraph(n *html.Node) Paragraph {
	e := readElement(n)
	par := Paragraph{ID: e.id, Lang: e.lang, BBox: e.bbox, Metadata: e.metadata()}

	for _, c := range collect(n, kindLine, kindWord) {
		if kindOf(c) == kindLine {
			par.Lines = append(par.Lines, processLine(c))
		} else {
			par.Words = append(par.Words, processWord(c))
		}
	}
	return par
}

func processLine(n *html.Node) Line {
	e := readElement(n)
	line := Line{
		ID:       e.id,
		Lang:     e.lang,
		BBox:     e.bbox,
		Baseline: strings.Join(e.props["baseline"], " "),
		Metadata: e.metadata("baseline"),
	}
	for _, c := range collect(n, kindWord) {
		line.Words = append(line.Words, processWord(c))
	}
	return line
}

func processWord(n *html.Node) Word {
	e := readElement(n)
	word := Word{
		ID:         e.id,
		Lang:       e.lang,
		BBox:       e.bbox,
		Confidence: e.float("x_wconf"),
		Metadata:   e.metadata("x_wconf", "x_bboxes", "lang"),
	}
	if lang, ok := e.props["lang"]; ok && len(lang) > 0 {
		word.Lang = lang[0]
	}
	if boxes, ok := e.props["x_bboxes"]; ok {
		word.CharBoxes = parseCharBoxes(boxes)
	}
	for _, c := range collect(n, kindChar) {
		ce := readElement(c)
		word.Chars = append(word.Chars, Char{
			ID:         ce.id,
			Text:       strings.TrimSpace(textContent(c)),
			BBox:       ce.bbox,
			Confidence: ce.float("x_conf"),
		})
	}
	word.Text = strings.TrimSpace(textContent(n))
	return word
}

// textContent concatenates the text nodes below n
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

// Get the value of a specific attribute from a node
func getAttrVal(n *html.Node, attrName string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrName {
			return attr.Val
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
