// Package raster handles the scanned page images: decoding, painting out
// regions already covered by vector text, cropping columns and scanning
// entries for red cancellation marks.
//
// All rectangles are in pixel coordinates of the page image.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF (incl. CCITT group 3/4 scans)
)

// Load decodes a PNG or TIFF page scan
func Load(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode page image: %w", err)
	}
	return img, nil
}

// LoadFile decodes the page scan at path
func LoadFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Clone copies img into a new RGBA image with the same bounds
func Clone(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	xdraw.Copy(dst, b.Min, img, b, xdraw.Src, nil)
	return dst
}

// Whiteout returns a copy of img with every rectangle painted white.
// The source image is not modified.
func Whiteout(img image.Image, rects []image.Rectangle) *image.RGBA {
	dst := Clone(img)
	white := image.NewUniform(color.White)
	for _, r := range rects {
		r = r.Intersect(dst.Bounds())
		if r.Empty() {
			continue
		}
		draw.Draw(dst, r, white, image.Point{}, draw.Src)
	}
	return dst
}

// Crop copies the part of img inside rect into a new image whose bounds
// start at (0,0). The rectangle is clipped to the image.
func Crop(img image.Image, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("crop rectangle %v outside image bounds %v", rect, img.Bounds())
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.Copy(dst, image.Point{}, img, rect, xdraw.Src, nil)
	return dst, nil
}

// Scale resizes img by factor with bilinear interpolation
func Scale(img image.Image, factor float64) *image.RGBA {
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*factor))
	h := max(1, int(float64(b.Dy())*factor))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// EncodePNG encodes img as PNG, the format handed to OCR engines
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePNG decodes a PNG produced by EncodePNG
func DecodePNG(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}
	return img, nil
}
