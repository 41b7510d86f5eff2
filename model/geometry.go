package model

import "math"

// Point represents a 2D point in page millimetres
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Size is the extent of a page in millimetres
type Size struct {
	Width  float64
	Height float64
}

// BBox represents a bounding box (rectangle).
// The origin is the top-left corner of the page and Y grows downward,
// which is the convention of both the raster scans and the text-layer dumps.
type BBox struct {
	X      float64 // Left
	Y      float64 // Top
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from coordinates
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromEdges creates a bounding box from its min/max edges
func NewBBoxFromEdges(minX, minY, maxX, maxY float64) BBox {
	x := math.Min(minX, maxX)
	y := math.Min(minY, maxY)
	return BBox{X: x, Y: y, Width: math.Abs(maxX - minX), Height: math.Abs(maxY - minY)}
}

// MinX returns the left edge
func (b BBox) MinX() float64 { return b.X }

// MaxX returns the right edge
func (b BBox) MaxX() float64 { return b.X + b.Width }

// MinY returns the upper edge
func (b BBox) MinY() float64 { return b.Y }

// MaxY returns the lower edge
func (b BBox) MaxY() float64 { return b.Y + b.Height }

// Origin returns the top-left corner
func (b BBox) Origin() Point { return Point{X: b.X, Y: b.Y} }

// Center returns the center point
func (b BBox) Center() Point {
	return Point{
		X: b.X + b.Width/2,
		Y: b.Y + b.Height/2,
	}
}

// Contains checks if a point is inside the bounding box. Edges count as inside.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.MinX() && p.X <= b.MaxX() &&
		p.Y >= b.MinY() && p.Y <= b.MaxY()
}

// Intersects checks if two bounding boxes intersect
func (b BBox) Intersects(other BBox) bool {
	return !(b.MaxX() < other.MinX() ||
		b.MinX() > other.MaxX() ||
		b.MaxY() < other.MinY() ||
		b.MinY() > other.MaxY())
}

// Union returns the smallest box covering both boxes.
// An empty receiver adopts the other box unchanged.
func (b BBox) Union(other BBox) BBox {
	if b == (BBox{}) {
		return other
	}
	if other == (BBox{}) {
		return b
	}
	return NewBBoxFromEdges(
		math.Min(b.MinX(), other.MinX()),
		math.Min(b.MinY(), other.MinY()),
		math.Max(b.MaxX(), other.MaxX()),
		math.Max(b.MaxY(), other.MaxY()),
	)
}

// Translate moves the box by dx, dy
func (b BBox) Translate(dx, dy float64) BBox {
	return BBox{X: b.X + dx, Y: b.Y + dy, Width: b.Width, Height: b.Height}
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// IsEmpty returns true if the bounding box has zero area
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}
