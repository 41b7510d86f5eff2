package extract

import (
	"log/slog"
	"sort"

	"github.com/tsawler/grundbuch/classify"
	"github.com/tsawler/grundbuch/model"
)

// Config holds configuration for record extraction
type Config struct {
	// RowLookback is how far (mm) above a block the row it belongs to may
	// start (default: 20)
	RowLookback float64

	// Repair configures the numbering repair
	Repair RepairConfig
}

// DefaultConfig returns the thresholds tuned on the scanned register family
func DefaultConfig() Config {
	return Config{
		RowLookback: 20,
		Repair:      DefaultRepairConfig(),
	}
}

// Extractor maps assembled pages to register sections
type Extractor struct {
	config Config
	logger *slog.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithLogger sets the logger for repair and extraction events
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an extractor with default configuration
func NewExtractor(opts ...Option) *Extractor {
	return NewExtractorWithConfig(DefaultConfig(), opts...)
}

// NewExtractorWithConfig creates an extractor with custom configuration
func NewExtractorWithConfig(config Config, opts ...Option) *Extractor {
	e := &Extractor{
		config: config,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Grundbuch extracts every section from the pages, repairs the numbering
// and checks the cross-references from the Abteilungen into the
// Bestandsverzeichnis.
func (e *Extractor) Grundbuch(titel model.Titelblatt, pages []PageBlocks) *model.Grundbuch {
	gb := &model.Grundbuch{
		Titelblatt:          titel,
		Bestandsverzeichnis: e.Bestandsverzeichnis(pages),
		Abteilung1:          e.Abteilung1(pages),
		Abteilung2:          e.Abteilung2(pages),
		Abteilung3:          e.Abteilung3(pages),
	}
	CheckReferences(gb)
	return gb
}

// sectionPages returns the pages of one section in page order
func sectionPages(pages []PageBlocks, section classify.Section) []PageBlocks {
	var out []PageBlocks
	for _, p := range pages {
		if p.Type.Section() == section {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// numbering assigns lfd. Nr. values with carry-forward: a number cell that
// holds text but no digits inherits the previous record's number; an empty
// cell yields 0, a missed read for zero-row absorption.
type numbering struct {
	last int
}

func (n *numbering) next(cell string, problems *model.Problems) int {
	if cell == "" {
		return 0
	}
	if nr, ok := ParseNumber(cell); ok {
		n.last = nr
		return nr
	}
	problems.Add(model.Warningf("unreadable lfd. Nr. %q, continuing %d", cell, n.last))
	return n.last
}
