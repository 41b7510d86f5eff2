package layout

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/tsawler/grundbuch/cache"
	"github.com/tsawler/grundbuch/model"
	"github.com/tsawler/grundbuch/raster"
	"github.com/tsawler/grundbuch/text"
)

// PageImage is a page scan together with its vector text layer
type PageImage struct {
	Index     int
	Image     image.Image
	Transform Transform
	Fragments []text.Fragment

	whited func() *image.RGBA
}

// NewPageImage pairs a scan with its text layer. size is the sheet size in
// millimetres as reported by the text layer.
func NewPageImage(index int, img image.Image, size model.Size, fragments []text.Fragment) *PageImage {
	p := &PageImage{
		Index:     index,
		Image:     img,
		Transform: NewTransform(size, img.Bounds()),
		Fragments: fragments,
	}
	p.whited = sync.OnceValue(func() *image.RGBA {
		rects := make([]image.Rectangle, 0, len(fragments))
		for _, f := range fragments {
			rects = append(rects, p.Transform.RectToPixel(f.BBox))
		}
		return raster.Whiteout(img, rects)
	})
	return p
}

// Whited returns the scan with every vector fragment painted white.
// It is computed once, on first use.
func (p *PageImage) Whited() *image.RGBA {
	return p.whited()
}

// ColumnFragments returns the vector fragments whose origin lies inside col
func (p *PageImage) ColumnFragments(col Column) []text.Fragment {
	var out []text.Fragment
	for _, f := range p.Fragments {
		if col.BBox.Contains(f.Origin()) {
			out = append(out, f)
		}
	}
	return out
}

// CropRect returns the pixel rectangle of col, clipped to the scan
func (p *PageImage) CropRect(col Column) image.Rectangle {
	return p.Transform.RectToPixel(col.BBox).Intersect(p.Image.Bounds())
}

// CropColumn cuts col out of the whited-out scan
func (p *PageImage) CropColumn(col Column) (*image.RGBA, error) {
	return raster.Crop(p.Whited(), p.CropRect(col))
}

// Geometry describes the cropped region of col, used as cache geometry
// and as OCR input id
func (p *PageImage) Geometry(col Column) string {
	r := p.CropRect(col)
	return fmt.Sprintf("%s@%d,%d,%d,%d", col.ID, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// Cropper produces PNG-encoded column crops, served from the cache when present
type Cropper struct {
	cache    *cache.Cache
	registry string
}

// NewCropper creates a cropper. A nil cache disables caching.
func NewCropper(c *cache.Cache, registry string) *Cropper {
	return &Cropper{cache: c, registry: registry}
}

// Crop returns the PNG crop of col on page p. A cached crop short-circuits
// the whiteout and crop work entirely.
func (c *Cropper) Crop(ctx context.Context, p *PageImage, col Column) ([]byte, error) {
	key := cache.Key{Registry: c.registry, Page: p.Index, Kind: cache.KindCrop, Geometry: p.Geometry(col)}
	return c.cache.GetOrCompute(ctx, key, func(context.Context) ([]byte, error) {
		img, err := p.CropColumn(col)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.ID, err)
		}
		return raster.EncodePNG(img)
	})
}
