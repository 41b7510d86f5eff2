package grundbuch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/tsawler/grundbuch/cache"
	"github.com/tsawler/grundbuch/config"
	"github.com/tsawler/grundbuch/ocr"
	"github.com/tsawler/grundbuch/rules"
)

// Extractor provides a fluent interface for reconstructing a register sheet.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	source Source

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		source:  e.source,
		options: e.options.clone(),
		err:     e.err,
	}
}

// Pages restricts extraction to the given pages (1-indexed).
// Calls accumulate.
//
// Example:
//
//	res, err := grundbuch.OpenDir("projects/demo").Pages(1, 3).Extract(ctx)
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange restricts extraction to a range of pages (1-indexed, inclusive).
//
// Example:
//
//	res, err := grundbuch.OpenDir("projects/demo").PageRange(5, 10).Extract(ctx)
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	if start > end {
		newExt.err = fmt.Errorf("invalid page range %d-%d", start, end)
		return newExt
	}
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// WithConfig sets the project configuration. A nil config is an error.
func (e *Extractor) WithConfig(cfg *config.Config) *Extractor {
	newExt := e.clone()
	if cfg == nil {
		newExt.err = errors.New("nil config")
		return newExt
	}
	newExt.options.config = cfg
	return newExt
}

// WithEngine sets the OCR engine. Without one, Tesseract is used with the
// configured languages.
func (e *Extractor) WithEngine(engine ocr.Engine) *Extractor {
	newExt := e.clone()
	newExt.options.engine = engine
	return newExt
}

// WithRules sets the text analysis rule. Without one, the configured
// script or the native rule is used.
func (e *Extractor) WithRules(rule rules.TextRule) *Extractor {
	newExt := e.clone()
	newExt.options.rule = rule
	return newExt
}

// WithCache sets the crop and OCR cache. Without one, a cache is opened in
// the configured cache directory, if any.
func (e *Extractor) WithCache(c *cache.Cache) *Extractor {
	newExt := e.clone()
	newExt.options.cache = c
	return newExt
}

// WithLogger sets the logger for pipeline events
func (e *Extractor) WithLogger(logger *slog.Logger) *Extractor {
	newExt := e.clone()
	if logger != nil {
		newExt.options.logger = logger
	}
	return newExt
}

// Extract runs the whole pipeline over the selected pages: classification,
// column assembly, record extraction with consistency repair, automatic
// cancellation and the analysis of every right.
//
// Failures confined to a page are reported in Result.PageErrors and the
// remaining pages are processed. Cancellation of ctx and configuration
// errors abort the run.
func (e *Extractor) Extract(ctx context.Context) (*Result, error) {
	if e.err != nil {
		return nil, e.err
	}
	pages, err := e.resolvePages()
	if err != nil {
		return nil, err
	}
	r, err := e.newRun()
	if err != nil {
		return nil, err
	}
	return r.extract(ctx, pages)
}

// resolvePages validates the page selection against the source and returns
// it sorted and without duplicates.
func (e *Extractor) resolvePages() ([]int, error) {
	available := e.source.PageNumbers()
	if len(e.options.pages) == 0 {
		return available, nil
	}

	known := make(map[int]bool, len(available))
	for _, p := range available {
		known[p] = true
	}
	seen := make(map[int]bool)
	var pages []int
	for _, p := range e.options.pages {
		if !known[p] {
			return nil, fmt.Errorf("%w: %d", ErrNoPage, p)
		}
		if !seen[p] {
			seen[p] = true
			pages = append(pages, p)
		}
	}
	sort.Ints(pages)
	return pages, nil
}

// newRun builds the collaborators of one run from the options
func (e *Extractor) newRun() (*run, error) {
	cfg := e.options.config
	r := &run{
		id:       newRunID(),
		source:   e.source,
		cfg:      cfg,
		registry: cfg.Registry.ID(),
		cache:    e.options.cache,
		rule:     e.options.rule,
	}
	r.logger = e.options.logger.With("run", r.id)

	if r.cache == nil && cfg.CacheDir != "" {
		c, err := cache.New(cfg.CacheDir, cache.WithLogger(r.logger))
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		r.cache = c
	}

	engine := e.options.engine
	if engine == nil {
		t, err := ocr.NewTesseract(ocr.WithLanguages(cfg.Languages...))
		if err != nil {
			return nil, fmt.Errorf("failed to create OCR engine: %w", err)
		}
		engine = t
	}
	r.pageEngine = engine
	r.engine = ocr.NewCached(engine, r.cache, r.registry)

	if r.rule == nil {
		rule, err := cfg.Rule(r.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to load text rules: %w", err)
		}
		r.rule = rule
	}
	return r, nil
}
