package layout

import (
	"image"
	"math"

	"github.com/tsawler/grundbuch/model"
	"github.com/tsawler/grundbuch/ocr"
)

// Transform converts between page millimetres and pixels of the page scan.
// The scale follows from the sheet size in millimetres and the image size
// in pixels, separately for each axis.
type Transform struct {
	Page   model.Size // millimetres
	Width  int        // pixels
	Height int        // pixels
}

// NewTransform builds the transform for a page scan with the given bounds
func NewTransform(page model.Size, bounds image.Rectangle) Transform {
	return Transform{Page: page, Width: bounds.Dx(), Height: bounds.Dy()}
}

// ScaleX returns pixels per millimetre along x
func (t Transform) ScaleX() float64 {
	if t.Page.Width == 0 {
		return 0
	}
	return float64(t.Width) / t.Page.Width
}

// ScaleY returns pixels per millimetre along y
func (t Transform) ScaleY() float64 {
	if t.Page.Height == 0 {
		return 0
	}
	return float64(t.Height) / t.Page.Height
}

// DPI returns the horizontal capture resolution in dots per inch
func (t Transform) DPI() float64 {
	return t.ScaleX() * 25.4
}

// MMToPixel converts a page point into raster space
func (t Transform) MMToPixel(p model.Point) model.Point {
	return model.Point{X: p.X * t.ScaleX(), Y: p.Y * t.ScaleY()}
}

// PixelToMM converts a raster point into page space
func (t Transform) PixelToMM(p model.Point) model.Point {
	sx, sy := t.ScaleX(), t.ScaleY()
	if sx == 0 || sy == 0 {
		return model.Point{}
	}
	return model.Point{X: p.X / sx, Y: p.Y / sy}
}

// RectToPixel converts a page rectangle into the smallest pixel rectangle
// covering it
func (t Transform) RectToPixel(b model.BBox) image.Rectangle {
	lo := t.MMToPixel(model.Point{X: b.MinX(), Y: b.MinY()})
	hi := t.MMToPixel(model.Point{X: b.MaxX(), Y: b.MaxY()})
	return image.Rect(
		int(math.Floor(lo.X)), int(math.Floor(lo.Y)),
		int(math.Ceil(hi.X)), int(math.Ceil(hi.Y)),
	)
}

// RectToMM converts a pixel rectangle into page space
func (t Transform) RectToMM(r image.Rectangle) model.BBox {
	lo := t.PixelToMM(model.Point{X: float64(r.Min.X), Y: float64(r.Min.Y)})
	hi := t.PixelToMM(model.Point{X: float64(r.Max.X), Y: float64(r.Max.Y)})
	return model.NewBBoxFromEdges(lo.X, lo.Y, hi.X, hi.Y)
}

// RegionToMM scales an OCR region, given in pixels of a crop, to
// millimetres relative to the crop's top-left corner
func (t Transform) RegionToMM(r ocr.Region) model.BBox {
	lo := t.PixelToMM(model.Point{X: r.X, Y: r.Y})
	hi := t.PixelToMM(model.Point{X: r.X + r.Width, Y: r.Y + r.Height})
	return model.NewBBoxFromEdges(lo.X, lo.Y, hi.X, hi.Y)
}

// LineToPage maps an OCR line box from the crop of col into page space:
// column pixels to column millimetres to page millimetres.
func (t Transform) LineToPage(col Column, r ocr.Region) model.BBox {
	return col.BBoxToPage(t.RegionToMM(r))
}

// CropToPage maps an OCR line box from a crop taken at the pixel rectangle
// crop into page space. Unlike LineToPage it stays exact when the crop was
// clipped at the scan edge or rounded to whole pixels.
func (t Transform) CropToPage(crop image.Rectangle, r ocr.Region) model.BBox {
	origin := t.PixelToMM(model.Point{X: float64(crop.Min.X), Y: float64(crop.Min.Y)})
	return t.RegionToMM(r).Translate(origin.X, origin.Y)
}
