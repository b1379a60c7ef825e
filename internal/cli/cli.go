// Package cli implements the textalign command-line interface.
//
// # Commands
//
//   - align: align transcripts with OCR output and write syllable boxes
//   - syllabify: split Latin text into syllables
//   - serve: run the HTTP API
//   - cache: manage the OCR result cache
//
// All commands support --verbose (-v) for debug-level logging. The logger travels in the
// command's context.Context and is picked up by the textalign package.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/gardar/textalign/pkg/cache"
	"github.com/gardar/textalign/pkg/gdocai"
	"github.com/gardar/textalign/pkg/ocr"
	"github.com/gardar/textalign/pkg/ocr/tesseract"
	"github.com/gardar/textalign/pkg/textalign"
)

const appName = "textalign"

// loadConfig reads path, or returns the defaults when path is empty
func loadConfig(path string) (textalign.Config, error) {
	if path == "" {
		return textalign.DefaultConfig(), nil
	}
	return textalign.LoadConfig(path)
}

// openCache opens the configured OCR cache. noCache forces the null cache.
func openCache(ctx context.Context, cfg textalign.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case textalign.CacheNone:
		return cache.NewNullCache(), nil
	case textalign.CacheRedis:
		return cache.NewRedisCache(ctx, cfg.Redis)
	default:
		dir, err := cacheDir(cfg)
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	}
}

func cacheDir(cfg textalign.CacheConfig) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return cache.DefaultDir()
}

// newEngine builds the image OCR engine named by the configuration
func newEngine(cfg textalign.Config) (ocr.Engine, error) {
	switch cfg.Engine {
	case textalign.EngineTesseract:
		e := tesseract.New(cfg.Tesseract.Languages...)
		e.TessdataPrefix = cfg.Tesseract.TessdataPrefix
		name := "tesseract"
		if len(cfg.Tesseract.Languages) > 0 {
			name += ":" + strings.Join(cfg.Tesseract.Languages, "+")
		}
		return ocr.StripEngine(name, e, cfg.Tesseract.Parallel), nil
	case textalign.EngineDocAI:
		if err := cfg.DocAI.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", textalign.ErrInvalidConfig, err)
		}
		docai := cfg.DocAI
		return gdocai.NewEngine(&docai), nil
	default:
		return nil, fmt.Errorf("engine %q does not read images", cfg.Engine)
	}
}
