package textalign

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/gardar/textalign/pkg/cache"
	"github.com/gardar/textalign/pkg/glyph"
	"github.com/gardar/textalign/pkg/ocr"
)

// Recognize runs engine over an encoded page image and returns its glyphs. Results are kept
// in c under a key built from the engine name, the image content and the strips, so a page is
// only sent to an engine once. A nil cache disables caching.
func Recognize(ctx context.Context, engine ocr.Engine, imageData []byte, layout Layout, c cache.Cache, ttl time.Duration) ([]glyph.Glyph, error) {
	logger := LoggerFromContext(ctx)
	if c == nil {
		c = cache.NewNullCache()
	}
	key := cache.Key("ocr", engine.Name(), cache.Hash(imageData), layout.Strips)

	data, ok, err := c.Get(ctx, key)
	switch {
	case err != nil:
		logger.Warn("cache read failed", "engine", engine.Name(), "error", err)
	case ok:
		var gs []glyph.Glyph
		if err := json.Unmarshal(data, &gs); err == nil {
			logger.Debug("ocr cache hit", "engine", engine.Name(), "glyphs", len(gs))
			return gs, nil
		}
		logger.Warn("discarding unreadable cache entry", "engine", engine.Name())
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %w", ocr.ErrRecognition, err)
	}

	start := time.Now()
	gs, err := engine.Recognize(ctx, img, layout.Strips)
	if err != nil {
		if !errors.Is(err, ocr.ErrRecognition) && ctx.Err() == nil {
			err = fmt.Errorf("%w: %s: %w", ocr.ErrRecognition, engine.Name(), err)
		}
		return nil, err
	}
	logger.Info("recognized page", "engine", engine.Name(), "glyphs", len(gs), "took", time.Since(start).Round(time.Millisecond))

	if data, err := json.Marshal(gs); err != nil {
		logger.Warn("encode ocr result", "error", err)
	} else if err := c.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "engine", engine.Name(), "error", err)
	}
	return gs, nil
}
