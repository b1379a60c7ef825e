package textalign

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTranscript prepares a transcript file for alignment. Lines starting with '#' are
// comments and are dropped; the remaining lines are joined with spaces, the "| " line
// continuation marker is removed, and the result is NFC-normalized, lowercased and has its
// whitespace collapsed to single spaces.
func NormalizeTranscript(s string) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		kept = append(kept, line)
	}
	text := strings.Join(kept, " ")
	text = strings.ReplaceAll(text, "| ", "")
	text = norm.NFC.String(text)
	text = strings.ToLower(text)
	return strings.Join(strings.Fields(text), " ")
}
