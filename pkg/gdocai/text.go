package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// textFromLayout extracts text from a layout's text anchor segments
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText []rune) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	var result strings.Builder
	for _, seg := range layout.TextAnchor.TextSegments {
		start, end := clampSegment(seg, len(fullText))
		result.WriteString(string(fullText[start:end]))
	}
	return result.String()
}

func clampSegment(seg *documentaipb.Document_TextAnchor_TextSegment, total int) (int, int) {
	start, end := int(seg.StartIndex), int(seg.EndIndex)
	start = max(start, 0)
	end = min(max(end, 0), total)
	return min(start, end), end
}

// anchorRange returns the first text segment of a layout, ok is false when there is none
func anchorRange(layout *documentaipb.Document_Page_Layout) (start, end int64, ok bool) {
	if layout == nil || layout.TextAnchor == nil || len(layout.TextAnchor.TextSegments) == 0 {
		return 0, 0, false
	}
	seg := layout.TextAnchor.TextSegments[0]
	return seg.StartIndex, seg.EndIndex, true
}

// isElementInParent reports whether the element's text lies inside the parent's text
func isElementInParent(elementLayout, parentLayout *documentaipb.Document_Page_Layout) bool {
	es, ee, ok := anchorRange(elementLayout)
	if !ok {
		return false
	}
	ps, pe, ok := anchorRange(parentLayout)
	if !ok {
		return false
	}
	return es >= ps && ee <= pe
}
