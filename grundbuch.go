// Package grundbuch reconstructs German land-register sheets (Grundbücher)
// from their page scans and the vector text layer that accompanies them.
//
// Basic usage:
//
//	res, err := grundbuch.OpenDir("projects/musterdorf-123").Extract(ctx)
//	if err != nil {
//	    // handle error
//	}
//	for page, err := range res.PageErrors {
//	    log.Printf("page %d skipped: %v", page, err)
//	}
//
// With options:
//
//	cfg, err := config.Parse("projects/musterdorf-123/grundbuch.yaml")
//	if err != nil {
//	    // handle error
//	}
//	res, err := grundbuch.OpenDir("projects/musterdorf-123").
//	    WithConfig(cfg).
//	    PageRange(1, 12).
//	    WithLogger(slog.Default()).
//	    Extract(ctx)
//
// The lower-level packages (classify, layout, extract, resolve, segment and
// rules) can be used on their own for custom pipelines.
package grundbuch

// Open returns an Extractor reading pages from source
//
// Example:
//
//	res, err := grundbuch.Open(src).Pages(3, 4).Extract(ctx)
func Open(source Source) *Extractor {
	e := &Extractor{
		source:  source,
		options: defaultOptions(),
	}
	if source == nil {
		e.err = errNoSource
	}
	return e
}

// OpenDir returns an Extractor over a project directory laid out as
// NewDirSource expects. A directory that cannot be read fails at Extract.
//
// Example:
//
//	res, err := grundbuch.OpenDir("projects/musterdorf-123").Extract(ctx)
func OpenDir(dir string) *Extractor {
	src, err := NewDirSource(dir)
	if err != nil {
		return &Extractor{options: defaultOptions(), err: err}
	}
	return Open(src)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	res := grundbuch.Must(grundbuch.OpenDir("projects/demo").Extract(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
