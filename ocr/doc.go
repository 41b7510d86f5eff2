// Package ocr defines the OCR collaborator of the extraction pipeline.
//
// An [Engine] turns one cropped page or column image into a [Result]: the
// recognised plain text plus one [Line] per text line with its bounding box
// in the pixel space of the submitted image. Line boxes are what the layout
// package groups into logical fields, so engines must report them.
//
// The Tesseract engine wraps gosseract and is only compiled with the "ocr"
// build tag:
//
//	go build -tags ocr
//
// This requires Tesseract with the German trained data. On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-deu
//
// Without the tag [NewTesseract] returns [ErrOCRNotEnabled]. Output that was
// produced elsewhere can be fed in through [ParseHOCR], and [Cached] wraps
// any engine with the on-disk cache.
package ocr
