package config

import (
	"log/slog"

	"github.com/tsawler/grundbuch/classify"
	"github.com/tsawler/grundbuch/extract"
	"github.com/tsawler/grundbuch/layout"
	"github.com/tsawler/grundbuch/resolve"
	"github.com/tsawler/grundbuch/rules"
	"github.com/tsawler/grundbuch/rules/script"
	"github.com/tsawler/grundbuch/segment"
)

// Mapper returns a column mapper carrying the line-break thresholds and
// every page's column overrides
func (c *Config) Mapper() *layout.Mapper {
	m := layout.NewMapper()
	m.SetLineBreaks(c.Thresholds.LineBreakMM, c.Thresholds.NumericLineBreakMM)
	for index, p := range c.Pages {
		for id, o := range p.Columns {
			m.SetOverride(index, id, o)
		}
	}
	return m
}

// ForcedTypes returns the page types set by the operator
func (c *Config) ForcedTypes() map[int]classify.PageType {
	out := make(map[int]classify.PageType)
	for index, p := range c.Pages {
		if p.Type != "" {
			out[index] = p.Type
		}
	}
	return out
}

// Rows returns the manual row boundaries of a page, nil for free flow
func (c *Config) Rows(page int) []float64 {
	return c.Pages[page].Rows
}

// ExtractConfig returns the record extraction settings
func (c *Config) ExtractConfig() extract.Config {
	cfg := extract.DefaultConfig()
	if c.Thresholds.RowLookbackMM > 0 {
		cfg.RowLookback = c.Thresholds.RowLookbackMM
	}
	return cfg
}

// ResolveConfig returns the resolver settings
func (c *Config) ResolveConfig() resolve.Config {
	cfg := resolve.DefaultConfig()
	cfg.Patterns = c.Patterns
	if c.Workers > 0 {
		cfg.Workers = c.Workers
	}
	return cfg
}

// SegmentConfig returns the sentence rules
func (c *Config) SegmentConfig() segment.Config {
	return segment.Config{Abbreviations: c.Abbreviations, Months: c.Months}
}

// Rule returns the configured text rule: the script when one is set,
// falling back to the native rule
func (c *Config) Rule(logger *slog.Logger) (rules.TextRule, error) {
	if c.Script == "" {
		return rules.NewNative(), nil
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return script.Load(c.Script, script.WithLogger(logger))
}
