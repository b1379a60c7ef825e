package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gardar/textalign/pkg/cache"
	"github.com/gardar/textalign/pkg/gdocai"
	"github.com/gardar/textalign/pkg/glyph"
	"github.com/gardar/textalign/pkg/hocr"
	"github.com/gardar/textalign/pkg/ocr"
	"github.com/gardar/textalign/pkg/textalign"
)

type alignOptions struct {
	job        pageJob
	engine     string
	configPath string
	batch      string
	dumpDir    string
	noCache    bool
}

// pageJob names the files of one page. Exactly one OCR source (LLocs, HOCR or Image) is used,
// in that order of preference.
type pageJob struct {
	Name       string `yaml:"name"`
	Transcript string `yaml:"transcript"`
	Layout     string `yaml:"layout"`
	Image      string `yaml:"image"`
	LLocs      string `yaml:"llocs"` // Directory of .llocs files, one per strip
	HOCR       string `yaml:"hocr"`
	Output     string `yaml:"output"` // Result JSON, "-" or empty for stdout
	HOCROut    string `yaml:"hocr_out"`
}

func (j pageJob) label() string {
	if j.Name != "" {
		return j.Name
	}
	return strings.TrimSuffix(filepath.Base(j.Transcript), filepath.Ext(j.Transcript))
}

type manifest struct {
	Pages []pageJob `yaml:"pages"`
}

func newAlignCmd() *cobra.Command {
	var opts alignOptions

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Compute syllable boxes for transcribed pages",
		Long: `Align a transcript with the OCR output of its page and write the pixel box of every syllable.

The OCR output comes from OCRopus .llocs files (--llocs), an hOCR file (--hocr), or is
computed from the page image (--image) with Tesseract or Google Document AI. Recognized
images are cached by content.

With --batch, pages are read from a YAML manifest and a page whose OCR fails is skipped.`,
		Example: `  textalign align --transcript f12r.txt --layout f12r.yml --llocs f12r/ -o f12r.json
  textalign align --transcript f12r.txt --layout f12r.yml --image f12r.png --engine tesseract
  textalign align --batch pages.yml --config textalign.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlign(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.job.Transcript, "transcript", "t", "", "transcript text file")
	f.StringVarP(&opts.job.Layout, "layout", "l", "", "page layout file (YAML, JSON or TOML)")
	f.StringVar(&opts.job.Image, "image", "", "processed page image to recognize")
	f.StringVar(&opts.job.LLocs, "llocs", "", "directory of .llocs files, one per strip")
	f.StringVar(&opts.job.HOCR, "hocr", "", "hOCR file with character boxes")
	f.StringVarP(&opts.job.Output, "output", "o", "", "result JSON file (default stdout)")
	f.StringVar(&opts.job.HOCROut, "hocr-out", "", "also write the syllable boxes as hOCR")
	f.StringVarP(&opts.engine, "engine", "e", "", "image OCR engine: tesseract or docai (overrides config)")
	f.StringVarP(&opts.configPath, "config", "c", "", "configuration file (YAML or TOML)")
	f.StringVar(&opts.batch, "batch", "", "YAML manifest listing the pages to align")
	f.StringVar(&opts.dumpDir, "dump-responses", "", "write raw Document AI responses to this directory")
	f.BoolVar(&opts.noCache, "no-cache", false, "do not read or write the OCR cache")

	return cmd
}

func runAlign(ctx context.Context, opts alignOptions, stdout, stderr io.Writer) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.engine != "" {
		cfg.Engine = opts.engine
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	jobs := []pageJob{opts.job}
	if opts.batch != "" {
		if jobs, err = loadManifest(opts.batch); err != nil {
			return err
		}
	}
	for _, j := range jobs {
		if j.Transcript == "" || j.Layout == "" {
			return fmt.Errorf("page %q needs a transcript and a layout", j.label())
		}
		if j.LLocs == "" && j.HOCR == "" && j.Image == "" {
			return fmt.Errorf("page %q needs an OCR source: --llocs, --hocr or --image", j.label())
		}
	}

	r := &runner{cfg: cfg, opts: opts}
	defer r.close()

	prog := newProgress(logger)
	aligned, skipped := 0, 0
	for _, j := range jobs {
		res, layout, err := r.alignPage(ctx, j)
		if errors.Is(err, ocr.ErrRecognition) {
			logger.Warn("skipping page", "page", j.label(), "error", err)
			printWarning(stderr, "Skipped %s: %v", j.label(), err)
			skipped++
			continue
		}
		if err != nil {
			printError(stderr, "%s failed", j.label())
			return fmt.Errorf("page %s: %w", j.label(), err)
		}
		if err := writeResult(j, res, layout, stdout, stderr); err != nil {
			return err
		}
		aligned++
	}

	if aligned == 0 && skipped > 0 {
		return fmt.Errorf("OCR failed on all %d pages", skipped)
	}
	prog.done(fmt.Sprintf("Aligned %d pages", aligned))
	if skipped > 0 {
		printWarning(stderr, "%d of %d pages skipped", skipped, len(jobs))
	}
	return nil
}

// loadManifest reads a batch manifest, resolving relative paths against its directory
func loadManifest(path string) ([]pageJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(m.Pages) == 0 {
		return nil, fmt.Errorf("manifest %s lists no pages", path)
	}

	base := filepath.Dir(path)
	resolve := func(p string) string {
		if p == "" || p == "-" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	for i := range m.Pages {
		j := &m.Pages[i]
		j.Transcript = resolve(j.Transcript)
		j.Layout = resolve(j.Layout)
		j.Image = resolve(j.Image)
		j.LLocs = resolve(j.LLocs)
		j.HOCR = resolve(j.HOCR)
		j.HOCROut = resolve(j.HOCROut)
		if j.Output == "" {
			j.Output = strings.TrimSuffix(j.Transcript, filepath.Ext(j.Transcript)) + ".json"
		} else {
			j.Output = resolve(j.Output)
		}
	}
	return m.Pages, nil
}

// runner holds what is shared between the pages of one run. The engine and cache are only
// opened when a page needs image recognition.
type runner struct {
	cfg    textalign.Config
	opts   alignOptions
	engine ocr.Engine
	cache  cache.Cache
	ttl    time.Duration
}

func (r *runner) close() {
	if r.cache != nil {
		r.cache.Close()
	}
}

func (r *runner) alignPage(ctx context.Context, j pageJob) (*textalign.Result, textalign.Layout, error) {
	logger := loggerFromContext(ctx).With("page", j.label())
	ctx = withLogger(ctx, logger)

	transcript, err := os.ReadFile(j.Transcript)
	if err != nil {
		return nil, textalign.Layout{}, fmt.Errorf("read transcript: %w", err)
	}
	layout, err := textalign.LoadLayout(j.Layout)
	if err != nil {
		return nil, layout, err
	}
	glyphs, err := r.glyphs(ctx, j, layout)
	if err != nil {
		return nil, layout, err
	}
	logger.Debug("loaded page", "glyphs", len(glyphs), "strips", len(layout.Strips))

	res, err := textalign.Process(ctx, textalign.Page{
		Transcript: string(transcript),
		Glyphs:     glyphs,
		Layout:     layout,
	}, r.cfg)
	return res, layout, err
}

func (r *runner) glyphs(ctx context.Context, j pageJob, layout textalign.Layout) ([]glyph.Glyph, error) {
	switch {
	case j.LLocs != "":
		files, err := ocr.LLocsFiles(j.LLocs)
		if err != nil {
			return nil, err
		}
		return ocr.GlyphsFromLLocs(files, layout.Strips)

	case j.HOCR != "":
		data, err := os.ReadFile(j.HOCR)
		if err != nil {
			return nil, fmt.Errorf("read hOCR: %w", err)
		}
		doc, err := hocr.ParseHOCR(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", j.HOCR, err)
		}
		return hocr.Glyphs(doc.Pages[0]), nil

	default:
		if err := r.openEngine(ctx); err != nil {
			return nil, err
		}
		img, err := os.ReadFile(j.Image)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		if e, ok := r.engine.(*gdocai.Engine); ok && r.opts.dumpDir != "" {
			e.LastResponse = func(doc *documentaipb.Document) { r.dumpResponse(ctx, j, doc) }
		}
		return textalign.Recognize(ctx, r.engine, img, layout, r.cache, r.ttl)
	}
}

func (r *runner) openEngine(ctx context.Context) error {
	if r.engine != nil {
		return nil
	}
	engine, err := newEngine(r.cfg)
	if err != nil {
		return err
	}
	ttl, err := r.cfg.Cache.TTLDuration()
	if err != nil {
		return err
	}
	c, err := openCache(ctx, r.cfg.Cache, r.opts.noCache)
	if err != nil {
		loggerFromContext(ctx).Warn("OCR cache unavailable, continuing without it", "error", err)
		c = cache.NewNullCache()
	}
	r.engine, r.cache, r.ttl = engine, c, ttl
	return nil
}

func (r *runner) dumpResponse(ctx context.Context, j pageJob, doc *documentaipb.Document) {
	logger := loggerFromContext(ctx)
	out, err := gdocai.ToJSON(doc)
	if err != nil {
		logger.Warn("encode document ai response", "error", err)
		return
	}
	if err := os.MkdirAll(r.opts.dumpDir, 0o755); err != nil {
		logger.Warn("create dump directory", "error", err)
		return
	}
	path := filepath.Join(r.opts.dumpDir, j.label()+".docai.json")
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		logger.Warn("write document ai response", "error", err)
		return
	}
	logger.Debug("wrote document ai response", "path", path)

	// the same response as hOCR, for viewing the recognized words over the page image
	page, err := hocr.GenerateHOCRDocument(gdocai.CreateHOCRDocument(doc))
	if err != nil {
		logger.Warn("render document ai response as hOCR", "error", err)
		return
	}
	if err := os.WriteFile(strings.TrimSuffix(path, ".json")+".hocr", []byte(page), 0o644); err != nil {
		logger.Warn("write document ai hOCR", "error", err)
	}
}

func writeResult(j pageJob, res *textalign.Result, layout textalign.Layout, stdout, stderr io.Writer) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')

	if j.Output == "" || j.Output == "-" {
		if _, err := stdout.Write(data); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(j.Output, data, 0o644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		printSuccess(stderr, "%s: %d syllable boxes", j.label(), len(res.SyllableBoxes))
		printFile(stderr, j.Output)
	}

	if j.HOCROut != "" {
		// syllable boxes are in source image coordinates
		size := layout.Original
		if size == (textalign.Size{}) {
			size = layout.Processed
		}
		doc, err := hocr.GenerateHOCRDocument(hocr.FromSyllableBoxes(res.SyllableBoxes, size.Width, size.Height))
		if err != nil {
			return err
		}
		if err := os.WriteFile(j.HOCROut, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("write hOCR: %w", err)
		}
		printFile(stderr, j.HOCROut)
	}
	return nil
}
