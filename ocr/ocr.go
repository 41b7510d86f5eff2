//go:build ocr

package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognises images with a local Tesseract installation.
// Each Recognize call uses its own client, so one engine may be shared
// across goroutines.
type Tesseract struct {
	config tesseractConfig
}

// NewTesseract creates a Tesseract engine
func NewTesseract(opts ...TesseractOption) (*Tesseract, error) {
	cfg := defaultTesseractConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Tesseract{config: cfg}, nil
}

// Name implements Engine
func (t *Tesseract) Name() string { return "tesseract" }

// Recognize implements Engine. Line boxes are taken from Tesseract's hOCR output.
func (t *Tesseract) Recognize(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(in.Image); err != nil {
		return Result{}, fmt.Errorf("failed to set image: %w", err)
	}
	langs := in.Languages
	if len(langs) == 0 {
		langs = t.config.languages
	}
	if err := client.SetLanguage(langs...); err != nil {
		return Result{}, fmt.Errorf("failed to set languages: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(t.config.psm)); err != nil {
		return Result{}, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if in.DPI > 0 {
		if err := client.SetVariable("user_defined_dpi", fmt.Sprint(in.DPI)); err != nil {
			return Result{}, fmt.Errorf("failed to set dpi: %w", err)
		}
	}
	for k, v := range in.Metadata {
		if err := client.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return Result{}, fmt.Errorf("failed to set variable %s: %w", k, err)
		}
	}

	hocr, err := client.HOCRText()
	if err != nil {
		return Result{}, fmt.Errorf("OCR failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res, err := ParseHOCR(strings.NewReader(hocr))
	if err != nil {
		return Result{}, err
	}
	res.InputID = in.ID
	return res, nil
}
