package extract

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/grundbuch/layout"
	"github.com/tsawler/grundbuch/model"
	"github.com/tsawler/grundbuch/raster"
)

// Cancellable is a record carrying a Rötung flag
type Cancellable interface {
	Position() model.Position
	Cancellation() *model.Cancellation
	Problems() *model.Problems
}

// RedScanner decides whether the region of a record is struck through in red
type RedScanner interface {
	IsRed(ctx context.Context, pos model.Position) (bool, error)
}

// ApplyAutoCancellation scans every record in parallel and sets its
// automatic cancellation layer. Manual decisions are left untouched and
// keep precedence. A failed scan is attached to its record; only context
// cancellation aborts the pass.
func ApplyAutoCancellation(ctx context.Context, records []Cancellable, scanner RedScanner, workers int) error {
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, rec := range records {
		g.Go(func() error {
			red, err := scanner.IsRed(ctx, rec.Position())
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				rec.Problems().Add(model.Problem{
					Severity: model.SeverityWarning,
					Kind:     model.KindTool,
					Message:  fmt.Sprintf("cancellation scan failed: %v", err),
				})
				return nil
			}
			rec.Cancellation().Automatic = red
			return nil
		})
	}
	return g.Wait()
}

// Cancellables lists every record of a register that carries a Rötung flag
func Cancellables(gb *model.Grundbuch) []Cancellable {
	var out []Cancellable
	for _, e := range gb.Bestandsverzeichnis.Eintraege {
		out = append(out, e)
	}
	for _, a := range gb.Bestandsverzeichnis.Zuschreibungen {
		out = append(out, a)
	}
	for _, a := range gb.Bestandsverzeichnis.Abschreibungen {
		out = append(out, a)
	}
	for _, e := range gb.Abteilung1.Eintraege {
		out = append(out, e)
	}
	for _, e := range gb.Abteilung2.Eintraege {
		out = append(out, e)
	}
	for _, e := range gb.Abteilung3.Eintraege {
		out = append(out, e)
	}
	for _, list := range [][]*model.AbtAnnotation{
		gb.Abteilung1.Veraenderungen, gb.Abteilung1.Loeschungen,
		gb.Abteilung2.Veraenderungen, gb.Abteilung2.Loeschungen,
		gb.Abteilung3.Veraenderungen, gb.Abteilung3.Loeschungen,
	} {
		for _, a := range list {
			out = append(out, a)
		}
	}
	return out
}

// RasterScanner measures red ink on the page scans
type RasterScanner struct {
	mu        sync.RWMutex
	pages     map[int]*layout.PageImage
	threshold raster.RedThreshold
	minRatio  float64
}

// DefaultRedRatio is the share of red pixels from which a record counts as cancelled
const DefaultRedRatio = 0.04

// NewRasterScanner creates a scanner flagging records whose region holds at
// least minRatio red pixels
func NewRasterScanner(minRatio float64) *RasterScanner {
	return &RasterScanner{
		pages:     make(map[int]*layout.PageImage),
		threshold: raster.DefaultRedThreshold(),
		minRatio:  minRatio,
	}
}

// AddPage registers a page scan
func (s *RasterScanner) AddPage(p *layout.PageImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[p.Index] = p
}

// IsRed implements RedScanner. The original scan is measured, not the
// whited-out copy, since strokes usually cross vector text.
func (s *RasterScanner) IsRed(ctx context.Context, pos model.Position) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	p, ok := s.pages[pos.Page]
	s.mu.RUnlock()
	if !ok {
		return false, fmt.Errorf("no scan for page %d", pos.Page)
	}
	rect := p.Transform.RectToPixel(pos.BBox)
	if rect.Empty() {
		return false, nil
	}
	return raster.RedRatio(p.Image, rect, s.threshold) >= s.minRatio, nil
}
