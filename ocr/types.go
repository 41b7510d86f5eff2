package ocr

import (
	"context"
	"errors"
	"math"
	"strings"
)

// ErrOCRNotEnabled is returned when OCR is requested but Tesseract support
// was not compiled in. Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Region is a rectangle in pixel coordinates with the origin in the
// upper-left corner of the image.
type Region struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

// IsEmpty reports whether the region has non-positive dimensions
func (r Region) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Union returns the smallest region covering both. An empty receiver adopts other.
func (r Region) Union(other Region) Region {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.X+r.Width, other.X+other.Width)
	maxY := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Region{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Line is one recognised text line
type Line struct {
	Text       string  `json:"text"`
	Bounds     Region  `json:"bounds"`
	Confidence float64 `json:"confidence,omitempty"` // 0..1, 0 if unknown
}

// Input is a single image submitted for recognition
type Input struct {
	// ID is echoed back in the Result. Callers use it to describe the
	// cropped region, which also makes it the cache geometry.
	ID string
	// Image is an encoded PNG or TIFF
	Image     []byte
	PageIndex int
	// DPI of the image; zero means unknown
	DPI       int
	Languages []string
	// Metadata passes engine-specific variables through, e.g.
	// "tessedit_char_whitelist" for numeric columns.
	Metadata map[string]string
}

// Result is the output for one Input
type Result struct {
	InputID   string `json:"input_id"`
	PlainText string `json:"text"`
	Lines     []Line `json:"lines"`
}

// Text joins the line texts with newlines, falling back to PlainText
func (r Result) Text() string {
	if len(r.Lines) == 0 {
		return r.PlainText
	}
	parts := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}

// Engine recognises one image at a time
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

// PageSegMode controls how Tesseract analyses the layout of an image.
// The values match Tesseract's own numbering.
type PageSegMode int

const (
	PSM_AUTO          PageSegMode = 3  // Fully automatic (default)
	PSM_SINGLE_COLUMN PageSegMode = 4  // Single column of variable sizes
	PSM_SINGLE_BLOCK  PageSegMode = 6  // Single uniform block of text
	PSM_SINGLE_LINE   PageSegMode = 7  // Single text line
	PSM_SPARSE_TEXT   PageSegMode = 11 // Find as much text as possible
)

// TesseractOption configures the Tesseract engine
type TesseractOption func(*tesseractConfig)

type tesseractConfig struct {
	languages []string
	psm       PageSegMode
}

func defaultTesseractConfig() tesseractConfig {
	return tesseractConfig{
		languages: []string{"deu"},
		psm:       PSM_SINGLE_COLUMN,
	}
}

// WithLanguages sets the trained data used when an Input names none
func WithLanguages(langs ...string) TesseractOption {
	return func(c *tesseractConfig) {
		c.languages = langs
	}
}

// WithPageSegMode sets the page segmentation mode
func WithPageSegMode(mode PageSegMode) TesseractOption {
	return func(c *tesseractConfig) {
		c.psm = mode
	}
}
