package textalign

import (
	"errors"
	"fmt"
	"time"

	"github.com/gardar/textalign/pkg/align"
	"github.com/gardar/textalign/pkg/cache"
	"github.com/gardar/textalign/pkg/gdocai"
	"github.com/gardar/textalign/pkg/glyph"
)

// ErrInvalidConfig is wrapped by every configuration problem found by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// OCR engines
const (
	EngineLLocs     = "llocs"     // OCRopus .llocs files, one per strip
	EngineHOCR      = "hocr"      // an hOCR file with word or character boxes
	EngineTesseract = "tesseract" // Tesseract on each strip
	EngineDocAI     = "docai"     // Google Document AI on the whole page
)

// Cache backends
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config holds the settings of an alignment run
type Config struct {
	Scoring       ScoringConfig   `yaml:"scoring" toml:"scoring"`
	Abbreviations bool            `yaml:"abbreviations" toml:"abbreviations"`   // Expand scribal abbreviations in OCR output
	MaxExpansions int             `yaml:"max_expansions" toml:"max_expansions"` // Replacement bound per abbreviation
	Transliterate bool            `yaml:"transliterate" toml:"transliterate"`   // Fold OCR output to ASCII after expansion
	Engine        string          `yaml:"engine" toml:"engine"`
	Tesseract     TesseractConfig `yaml:"tesseract" toml:"tesseract"`
	DocAI         gdocai.Config   `yaml:"docai" toml:"docai"`
	Cache         CacheConfig     `yaml:"cache" toml:"cache"`
}

// TesseractConfig configures the Tesseract engine
type TesseractConfig struct {
	Languages      []string `yaml:"languages" toml:"languages"`
	TessdataPrefix string   `yaml:"tessdata_prefix" toml:"tessdata_prefix"`
	Parallel       int      `yaml:"parallel" toml:"parallel"` // Strips recognized at once
}

// CacheConfig configures the OCR result cache
type CacheConfig struct {
	Backend string            `yaml:"backend" toml:"backend"`
	Dir     string            `yaml:"dir" toml:"dir"` // File cache directory, empty for the user cache dir
	Redis   cache.RedisConfig `yaml:"redis" toml:"redis"`
	TTL     string            `yaml:"ttl" toml:"ttl"` // Go duration, empty or "0" never expires
}

// TTLDuration parses TTL
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	return time.ParseDuration(c.TTL)
}

// ScoringConfig is the file form of a scoring system. Either Costs holds a flat list of four or
// six values, or the named fields of exactly one of the two shapes are set:
//
//	match, mismatch, gap_open, gap_extend
//	match, mismatch, gap_open_x, gap_open_y, gap_extend_x, gap_extend_y
//
// Nothing set selects the default system.
type ScoringConfig struct {
	Costs      []float64 `yaml:"costs,omitempty" toml:"costs,omitempty" json:"costs,omitempty"`
	Match      *float64  `yaml:"match,omitempty" toml:"match,omitempty" json:"match,omitempty"`
	Mismatch   *float64  `yaml:"mismatch,omitempty" toml:"mismatch,omitempty" json:"mismatch,omitempty"`
	GapOpen    *float64  `yaml:"gap_open,omitempty" toml:"gap_open,omitempty" json:"gap_open,omitempty"`
	GapExtend  *float64  `yaml:"gap_extend,omitempty" toml:"gap_extend,omitempty" json:"gap_extend,omitempty"`
	GapOpenX   *float64  `yaml:"gap_open_x,omitempty" toml:"gap_open_x,omitempty" json:"gap_open_x,omitempty"`
	GapOpenY   *float64  `yaml:"gap_open_y,omitempty" toml:"gap_open_y,omitempty" json:"gap_open_y,omitempty"`
	GapExtendX *float64  `yaml:"gap_extend_x,omitempty" toml:"gap_extend_x,omitempty" json:"gap_extend_x,omitempty"`
	GapExtendY *float64  `yaml:"gap_extend_y,omitempty" toml:"gap_extend_y,omitempty" json:"gap_extend_y,omitempty"`
}

// IsZero reports whether nothing was configured
func (s ScoringConfig) IsZero() bool {
	return len(s.Costs) == 0 && countSet(s.Match, s.Mismatch, s.GapOpen, s.GapExtend,
		s.GapOpenX, s.GapOpenY, s.GapExtendX, s.GapExtendY) == 0
}

// System builds the scoring system. A mixture of shapes, or an incomplete shape, is an
// align.ConfigurationError.
func (s ScoringConfig) System() (align.ScoringSystem, error) {
	if s.IsZero() {
		return align.DefaultScoring(), nil
	}
	named := countSet(s.Match, s.Mismatch, s.GapOpen, s.GapExtend, s.GapOpenX, s.GapOpenY, s.GapExtendX, s.GapExtendY)
	if len(s.Costs) > 0 {
		if named > 0 {
			return align.ScoringSystem{}, &align.ConfigurationError{Reason: "scoring sets both costs and named fields"}
		}
		return align.FromCosts(s.Costs...)
	}

	four := countSet(s.GapOpen, s.GapExtend)
	six := countSet(s.GapOpenX, s.GapOpenY, s.GapExtendX, s.GapExtendY)
	if s.Match == nil || s.Mismatch == nil {
		return align.ScoringSystem{}, &align.ConfigurationError{Reason: "scoring needs match and mismatch"}
	}
	switch {
	case four == 2 && six == 0:
		return align.FourCost(*s.Match, *s.Mismatch, *s.GapOpen, *s.GapExtend)
	case six == 4 && four == 0:
		return align.SixCost(*s.Match, *s.Mismatch, *s.GapOpenX, *s.GapOpenY, *s.GapExtendX, *s.GapExtendY)
	default:
		return align.ScoringSystem{}, &align.ConfigurationError{
			Reason: "scoring must set gap_open and gap_extend, or all four of gap_open_x, gap_open_y, gap_extend_x and gap_extend_y",
		}
	}
}

func countSet(vs ...*float64) int {
	n := 0
	for _, v := range vs {
		if v != nil {
			n++
		}
	}
	return n
}

// DefaultConfig returns the settings used when no configuration file is given
func DefaultConfig() Config {
	return Config{
		Abbreviations: true,
		MaxExpansions: glyph.DefaultMaxExpansions,
		Engine:        EngineLLocs,
		Tesseract: TesseractConfig{
			Languages: []string{"lat"},
			Parallel:  4,
		},
		DocAI: gdocai.Config{Location: "eu"},
		Cache: CacheConfig{Backend: CacheFile},
	}
}

// LoadConfig reads a YAML or TOML configuration file over DefaultConfig and validates it
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := decodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration without contacting any external service
func (c Config) Validate() error {
	if _, err := c.Scoring.System(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch c.Engine {
	case EngineLLocs, EngineHOCR, EngineTesseract, EngineDocAI:
	default:
		return fmt.Errorf("%w: unknown engine %q", ErrInvalidConfig, c.Engine)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile, CacheRedis:
	default:
		return fmt.Errorf("%w: unknown cache backend %q", ErrInvalidConfig, c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("%w: redis cache needs an address", ErrInvalidConfig)
	}
	if _, err := c.Cache.TTLDuration(); err != nil {
		return fmt.Errorf("%w: cache ttl: %w", ErrInvalidConfig, err)
	}
	if c.MaxExpansions < 0 {
		return fmt.Errorf("%w: max_expansions must not be negative", ErrInvalidConfig)
	}
	return nil
}
