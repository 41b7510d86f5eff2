package layout

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/tsawler/grundbuch/cache"
	"github.com/tsawler/grundbuch/model"
	"github.com/tsawler/grundbuch/raster"
	"github.com/tsawler/grundbuch/text"
)

// blackPage is a 100x100 mm sheet scanned at 1 px/mm, fully inked
func blackPage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return img
}

func TestPageImage_CropColumn(t *testing.T) {
	frags := []text.Fragment{{Text: "1", BBox: model.NewBBox(12, 12, 4, 4)}}
	p := NewPageImage(0, blackPage(), model.Size{Width: 100, Height: 100}, frags)
	col := Column{ID: "lfd-nr", BBox: model.NewBBoxFromEdges(10, 10, 30, 50)}

	crop, err := p.CropColumn(col)
	if err != nil {
		t.Fatalf("CropColumn failed: %v", err)
	}
	if want := image.Rect(0, 0, 20, 40); crop.Bounds() != want {
		t.Errorf("expected bounds %v, got %v", want, crop.Bounds())
	}
	if got := crop.RGBAAt(3, 3); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("expected vector text painted white, got %v", got)
	}
	if got := crop.RGBAAt(15, 30); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("expected ink outside the fragments, got %v", got)
	}

	if got := p.Geometry(col); got != "lfd-nr@10,10,30,50" {
		t.Errorf("expected geometry lfd-nr@10,10,30,50, got %q", got)
	}
	if got := len(p.ColumnFragments(col)); got != 1 {
		t.Errorf("expected 1 fragment in the column, got %d", got)
	}
	if got := len(p.ColumnFragments(Column{BBox: model.NewBBox(50, 50, 10, 10)})); got != 0 {
		t.Errorf("expected no fragments outside, got %d", got)
	}
}

func TestPageImage_CropRectClipped(t *testing.T) {
	p := NewPageImage(0, blackPage(), model.Size{Width: 100, Height: 100}, nil)
	col := Column{ID: "text", BBox: model.NewBBoxFromEdges(-5, -10, 30, 50)}

	if want, got := image.Rect(0, 0, 30, 50), p.CropRect(col); got != want {
		t.Errorf("expected crop rect %v, got %v", want, got)
	}
	if got := p.Geometry(col); got != "text@0,0,30,50" {
		t.Errorf("expected geometry of the clipped crop, got %q", got)
	}
	crop, err := p.CropColumn(col)
	if err != nil {
		t.Fatalf("CropColumn failed: %v", err)
	}
	if want := image.Rect(0, 0, 30, 50); crop.Bounds() != want {
		t.Errorf("expected bounds %v, got %v", want, crop.Bounds())
	}
}

func TestCropper_Cached(t *testing.T) {
	c, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatalf("cache.New failed: %v", err)
	}
	cropper := NewCropper(c, "reg")
	col := Column{ID: "text", BBox: model.NewBBoxFromEdges(0, 0, 10, 10)}

	p := NewPageImage(1, blackPage(), model.Size{Width: 100, Height: 100}, nil)
	first, err := cropper.Crop(context.Background(), p, col)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	img, err := raster.DecodePNG(first)
	if err != nil {
		t.Fatalf("DecodePNG failed: %v", err)
	}
	if want := image.Rect(0, 0, 10, 10); img.Bounds() != want {
		t.Errorf("expected bounds %v, got %v", want, img.Bounds())
	}

	// A second page object with the same index and geometry hits the cache,
	// even though its image differs.
	white := image.NewRGBA(image.Rect(0, 0, 100, 100))
	p2 := NewPageImage(1, white, model.Size{Width: 100, Height: 100}, nil)
	second, err := cropper.Crop(context.Background(), p2, col)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("expected the cached crop to be returned")
	}
}

func TestCropper_OutsideImage(t *testing.T) {
	cropper := NewCropper(nil, "reg")
	p := NewPageImage(0, blackPage(), model.Size{Width: 100, Height: 100}, nil)
	_, err := cropper.Crop(context.Background(), p, Column{ID: "x", BBox: model.NewBBox(200, 200, 10, 10)})
	if err == nil {
		t.Error("expected an error for a column outside the scan")
	}
}
