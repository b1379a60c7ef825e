package ocr

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gardar/textalign/pkg/glyph"
)

// ReadLLocs reads OCRopus .llocs output for one strip. Each line holds a character, a tab
// and the strip-local x coordinate of the character's right edge.
//
// OCRopus only reports right edges, so each glyph starts where the previous one ended; the
// first glyph starts at the strip's left edge. Entries for '~' or an empty character are
// dropped, but still move the left edge along.
func ReadLLocs(r io.Reader, s Strip) ([]glyph.Glyph, error) {
	var glyphs []glyph.Glyph
	left := s.X

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		char, pos, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("llocs line %d: missing tab separator", lineNo)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(pos), 64)
		if err != nil {
			return nil, fmt.Errorf("llocs line %d: invalid position %q: %w", lineNo, pos, err)
		}
		right := int(math.RoundToEven(x + float64(s.X)))

		char = strings.ReplaceAll(char, "~", "")
		if char != "" {
			box := glyph.NewBoundingBox(left, s.Y, right, s.Y+s.Height)
			glyphs = append(glyphs, glyph.Split(char, &box)...)
		}
		left = right
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read llocs: %w", err)
	}
	return glyphs, nil
}

// LLocsFiles lists the .llocs files in dir in strip order. OCRopus numbers line files
// without zero padding, so files are ordered by the last run of digits in their name and
// only fall back to name order for equal or missing numbers.
func LLocsFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.llocs"))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(files, func(i, j int) bool {
		ni, oki := lineNumber(files[i])
		nj, okj := lineNumber(files[j])
		switch {
		case oki && okj && ni != nj:
			return ni < nj
		case oki != okj:
			return oki
		}
		return files[i] < files[j]
	})
	return files, nil
}

// lineNumber returns the last run of decimal digits in the base name of path
func lineNumber(path string) (int, bool) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	end := len(name)
	for end > 0 && (name[end-1] < '0' || name[end-1] > '9') {
		end--
	}
	start := end
	for start > 0 && name[start-1] >= '0' && name[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, false
	}
	n, err := strconv.Atoi(name[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// GlyphsFromLLocs reads one .llocs file per strip and concatenates the glyphs in strip order
func GlyphsFromLLocs(files []string, strips []Strip) ([]glyph.Glyph, error) {
	if len(files) != len(strips) {
		return nil, fmt.Errorf("got %d llocs files for %d strips", len(files), len(strips))
	}
	var glyphs []glyph.Glyph
	for i, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("failed to open llocs file: %w", err)
		}
		gs, err := ReadLLocs(f, strips[i])
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		glyphs = append(glyphs, gs...)
	}
	return glyphs, nil
}
