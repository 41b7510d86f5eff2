package model

import "fmt"

// PageError is a failure confined to one page. Other pages keep processing.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// ToolError is an I/O or parse failure of an upstream collaborator
// (OCR engine, text-layer dump, raster scan).
type ToolError struct {
	Page int
	Path string
	Op   string
	Err  error
}

func (e *ToolError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s page %d (%s): %v", e.Op, e.Page, e.Path, e.Err)
	}
	return fmt.Sprintf("%s page %d: %v", e.Op, e.Page, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }
