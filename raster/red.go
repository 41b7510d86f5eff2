package raster

import (
	"image"
)

// RedThreshold decides when a pixel counts as red ink. Channel values are 8-bit.
type RedThreshold struct {
	MinRed uint8 // minimum red channel
	MinGap uint8 // minimum distance of red above both green and blue
}

// DefaultRedThreshold matches the red pencil strokes used to cancel entries
func DefaultRedThreshold() RedThreshold {
	return RedThreshold{MinRed: 140, MinGap: 60}
}

// IsRed reports whether an 8-bit RGB pixel counts as red ink
func (t RedThreshold) IsRed(r, g, b uint8) bool {
	return r >= t.MinRed && int(r)-int(g) >= int(t.MinGap) && int(r)-int(b) >= int(t.MinGap)
}

// RedRatio returns the share of red pixels inside rect, in [0,1].
// An empty intersection with the image yields 0.
func RedRatio(img image.Image, rect image.Rectangle, t RedThreshold) float64 {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return 0
	}
	var red int
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if t.IsRed(uint8(r>>8), uint8(g>>8), uint8(b>>8)) {
				red++
			}
		}
	}
	return float64(red) / float64(rect.Dx()*rect.Dy())
}
