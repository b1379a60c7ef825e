package textalign

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gardar/textalign/pkg/ocr"
	"github.com/gardar/textalign/pkg/project"
)

// Size is a canvas size in pixels
type Size struct {
	Width  int `yaml:"width" toml:"width" json:"width"`
	Height int `yaml:"height" toml:"height" json:"height"`
}

// Point returns the size as an image.Point
func (s Size) Point() image.Point { return image.Pt(s.Width, s.Height) }

// Layout is what page preprocessing reports about a page: the deskew rotation, the canvas
// sizes before and after rotation, the detected text line positions and the strips cut
// around them for OCR.
type Layout struct {
	Angle         float64     `yaml:"angle" toml:"angle" json:"angle"`
	Processed     Size        `yaml:"processed" toml:"processed" json:"processed"`
	Original      Size        `yaml:"original" toml:"original" json:"original"`
	PeakLocations []int       `yaml:"peak_locations" toml:"peak_locations" json:"peak_locations"`
	Strips        []ocr.Strip `yaml:"strips" toml:"strips" json:"strips"`
}

// Rotation returns the rotation to undo when projecting boxes back onto the source image.
// A layout without canvas sizes is treated as unrotated.
func (l Layout) Rotation() project.Rotation {
	if l.Processed == (Size{}) || l.Original == (Size{}) {
		return project.Rotation{}
	}
	return project.Rotation{Angle: l.Angle, Processed: l.Processed.Point(), Original: l.Original.Point()}
}

// LoadLayout reads a page layout sidecar. Files ending in .toml are read as TOML, anything
// else as YAML (which includes JSON).
func LoadLayout(path string) (Layout, error) {
	var l Layout
	if err := decodeFile(path, &l); err != nil {
		return Layout{}, fmt.Errorf("load layout: %w", err)
	}
	return l, nil
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), v); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
