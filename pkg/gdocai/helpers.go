package gdocai

import (
	"encoding/json"
	"math"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/gardar/textalign/pkg/hocr"
)

// ToJSON converts various types to a pretty-printed JSON string
// It handles both protocol buffer messages and regular Go structs
func ToJSON(data any) (string, error) {
	switch v := data.(type) {
	case proto.Message:
		jsonData, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(jsonData), nil
	default:
		jsonData, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(jsonData), nil
	}
}

// layoutBox returns the pixel box enclosing a layout's bounding polygon. Absolute vertices are
// used when present, otherwise normalized vertices are scaled by the page dimension.
func layoutBox(layout *documentaipb.Document_Page_Layout, dim *documentaipb.Document_Page_Dimension) (hocr.BoundingBox, bool) {
	if layout == nil || layout.BoundingPoly == nil {
		return hocr.BoundingBox{}, false
	}
	poly := layout.BoundingPoly

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	extend := func(x, y float64) {
		minX, minY = math.Min(minX, x), math.Min(minY, y)
		maxX, maxY = math.Max(maxX, x), math.Max(maxY, y)
	}

	switch {
	case len(poly.Vertices) > 0:
		for _, v := range poly.Vertices {
			extend(float64(v.X), float64(v.Y))
		}
	case len(poly.NormalizedVertices) > 0 && dim != nil:
		w, h := float64(dim.Width), float64(dim.Height)
		for _, v := range poly.NormalizedVertices {
			extend(float64(v.X)*w, float64(v.Y)*h)
		}
	default:
		return hocr.BoundingBox{}, false
	}
	return hocr.NewBoundingBox(math.Round(minX), math.Round(minY), math.Round(maxX), math.Round(maxY)), true
}
