//go:build !ocr

package ocr

import "context"

// Tesseract is a stub engine used when the "ocr" build tag is not set
type Tesseract struct{}

// NewTesseract returns ErrOCRNotEnabled.
// To enable OCR, rebuild with: go build -tags ocr
func NewTesseract(opts ...TesseractOption) (*Tesseract, error) {
	return nil, ErrOCRNotEnabled
}

// Name implements Engine
func (t *Tesseract) Name() string { return "tesseract" }

// Recognize returns ErrOCRNotEnabled
func (t *Tesseract) Recognize(ctx context.Context, in Input) (Result, error) {
	return Result{}, ErrOCRNotEnabled
}
