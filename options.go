package grundbuch

import (
	"log/slog"

	"github.com/tsawler/grundbuch/cache"
	"github.com/tsawler/grundbuch/config"
	"github.com/tsawler/grundbuch/ocr"
	"github.com/tsawler/grundbuch/rules"
)

// ExtractOptions holds the configuration of one extraction run
type ExtractOptions struct {
	// Page selection (1-indexed); nil means all pages
	pages []int

	config *config.Config

	// Collaborators; nil values are built from config at Extract time
	engine ocr.Engine
	rule   rules.TextRule
	cache  *cache.Cache

	logger *slog.Logger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		config: config.Default(),
		logger: slog.New(slog.DiscardHandler),
	}
}

// clone creates a deep copy of the page selection. The configuration and
// collaborators are shared; they are not modified by the extractor.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}
	return newOpts
}
