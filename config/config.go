// Package config reads the YAML project configuration: registry identity,
// worker and cache settings, thresholds, per-page operator corrections and
// the text analysis tables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/grundbuch/classify"
	"github.com/tsawler/grundbuch/extract"
	"github.com/tsawler/grundbuch/layout"
	"github.com/tsawler/grundbuch/model"
	"github.com/tsawler/grundbuch/resolve"
	"github.com/tsawler/grundbuch/segment"
)

// Config is the project configuration
type Config struct {
	Registry  model.Titelblatt
	DPI       int
	Workers   int
	CacheDir  string
	Languages []string

	Thresholds Thresholds
	Pages      map[int]Page

	Abbreviations []string
	Months        []string
	Patterns      []resolve.Pattern

	// Script is the path of a JavaScript rule file, empty for the native rules
	Script string
}

// Thresholds are the tuned distances and ratios
type Thresholds struct {
	RowLookbackMM      float64
	RoetungRatio       float64
	LineBreakMM        float64
	NumericLineBreakMM float64
}

// Page holds the operator corrections of one page
type Page struct {
	// Type forces the page type; empty lets the classifier decide
	Type classify.PageType
	// Rows are manual row boundaries (mm from the top of the page)
	Rows []float64
	// Columns are geometry overrides keyed by column id
	Columns map[string]layout.Override
}

// Default returns a configuration usable without a file
func Default() *Config {
	seg := segment.DefaultConfig()
	return &Config{
		DPI:       300,
		Workers:   4,
		Languages: []string{"deu"},
		Thresholds: Thresholds{
			RowLookbackMM:      extract.DefaultConfig().RowLookback,
			RoetungRatio:       extract.DefaultRedRatio,
			LineBreakMM:        layout.DefaultLineBreakMM,
			NumericLineBreakMM: layout.DefaultNumericLineBreakMM,
		},
		Pages:         make(map[int]Page),
		Abbreviations: seg.Abbreviations,
		Months:        seg.Months,
	}
}

// Parse reads a configuration file. Environment variables in the file are
// expanded, unknown keys are rejected and unset keys keep their defaults.
func Parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBytes(data)
}

// ParseBytes parses configuration YAML
func ParseBytes(data []byte) (*Config, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var file configFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	c := Default()
	c.registerRegistry(file)
	c.registerThresholds(file)

	if err := c.registerPages(file); err != nil {
		return nil, err
	}
	if err := c.registerPatterns(file); err != nil {
		return nil, err
	}
	if file.Abbreviations != nil {
		c.Abbreviations = file.Abbreviations
	}
	if file.Months != nil {
		c.Months = file.Months
	}
	return c, nil
}

type configFile struct {
	Registry *registryConfig `yaml:"registry"`

	DPI       *int     `yaml:"dpi"`
	Workers   *int     `yaml:"workers"`
	CacheDir  string   `yaml:"cache_dir"`
	Languages []string `yaml:"languages"`
	Script    string   `yaml:"script"`

	Thresholds *thresholdsConfig `yaml:"thresholds"`
	Pages      map[int]pageConfig `yaml:"pages"`

	Abbreviations []string        `yaml:"abbreviations"`
	Months        []string        `yaml:"months"`
	Patterns      []patternConfig `yaml:"patterns"`
}

type registryConfig struct {
	Amtsgericht  string `yaml:"amtsgericht"`
	GrundbuchVon string `yaml:"grundbuch_von"`
	Blatt        string `yaml:"blatt"`
}

type thresholdsConfig struct {
	RowLookbackMM      *float64 `yaml:"row_lookback_mm"`
	RoetungRatio       *float64 `yaml:"roetung_ratio"`
	LineBreakMM        *float64 `yaml:"line_break_mm"`
	NumericLineBreakMM *float64 `yaml:"numeric_line_break_mm"`
}

type pageConfig struct {
	Type    string                  `yaml:"type"`
	Rows    []float64               `yaml:"rows"`
	Columns map[string]columnConfig `yaml:"columns"`
}

type columnConfig struct {
	MinX      *float64 `yaml:"min_x"`
	MinY      *float64 `yaml:"min_y"`
	MaxX      *float64 `yaml:"max_x"`
	MaxY      *float64 `yaml:"max_y"`
	LineBreak *float64 `yaml:"line_break_mm"`
}

type patternConfig struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

func (c *Config) registerRegistry(file configFile) {
	if r := file.Registry; r != nil {
		c.Registry = model.Titelblatt{
			Amtsgericht:  r.Amtsgericht,
			GrundbuchVon: r.GrundbuchVon,
			Blatt:        r.Blatt,
		}
	}
	if file.DPI != nil {
		c.DPI = *file.DPI
	}
	if file.Workers != nil {
		c.Workers = *file.Workers
	}
	if file.CacheDir != "" {
		c.CacheDir = file.CacheDir
	}
	if len(file.Languages) > 0 {
		c.Languages = file.Languages
	}
	c.Script = file.Script
}

func (c *Config) registerThresholds(file configFile) {
	t := file.Thresholds
	if t == nil {
		return
	}
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.Thresholds.RowLookbackMM, t.RowLookbackMM)
	set(&c.Thresholds.RoetungRatio, t.RoetungRatio)
	set(&c.Thresholds.LineBreakMM, t.LineBreakMM)
	set(&c.Thresholds.NumericLineBreakMM, t.NumericLineBreakMM)
}

func (c *Config) registerPages(file configFile) error {
	for index, p := range file.Pages {
		page := Page{Rows: p.Rows}
		if p.Type != "" {
			pt, err := classify.ParsePageType(p.Type)
			if err != nil {
				return fmt.Errorf("page %d: %w", index, err)
			}
			page.Type = pt
		}
		if !sort.Float64sAreSorted(page.Rows) {
			return fmt.Errorf("page %d: row boundaries must be ascending", index)
		}
		for id, col := range p.Columns {
			if page.Columns == nil {
				page.Columns = make(map[string]layout.Override)
			}
			page.Columns[id] = layout.Override{
				MinX:           col.MinX,
				MinY:           col.MinY,
				MaxX:           col.MaxX,
				MaxY:           col.MaxY,
				LineBreakAfter: col.LineBreak,
			}
		}
		c.Pages[index] = page
	}
	return nil
}

func (c *Config) registerPatterns(file configFile) error {
	for _, p := range file.Patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return fmt.Errorf("pattern %q: %w", p.Name, err)
		}
		c.Patterns = append(c.Patterns, resolve.Pattern{Name: p.Name, Regexp: re})
	}
	return nil
}
