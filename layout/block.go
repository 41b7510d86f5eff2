package layout

import (
	"image"
	"sort"

	"github.com/tsawler/grundbuch/model"
	"github.com/tsawler/grundbuch/ocr"
	"github.com/tsawler/grundbuch/text"
)

// ColumnInput is everything known about one column of one page
type ColumnInput struct {
	// Column is the column geometry in page millimetres
	Column Column

	// Transform maps crop pixels to millimetres
	Transform Transform

	// Lines are the OCR lines of the column crop, in pixels of the crop
	Lines []ocr.Line

	// Crop is the pixel rectangle of the scan the lines were read from.
	// When empty the crop is taken to start at the column origin.
	Crop image.Rectangle

	// Fragments are vector text fragments of the page. Only those whose
	// origin lies inside the column are used.
	Fragments []text.Fragment

	// Rows are operator-defined row boundaries (page y in millimetres).
	// When set, the column is split into len(Rows)+1 fixed rows.
	Rows []float64
}

// ColumnBlocks is the assembled output of one column
type ColumnBlocks struct {
	Column Column
	Blocks []model.Textblock
}

// AssemblerConfig holds configuration for text block assembly
type AssemblerConfig struct {
	// DefaultLineBreak applies to columns without their own LineBreakAfter
	// (millimetres, default: DefaultLineBreakMM)
	DefaultLineBreak float64
}

// DefaultAssemblerConfig returns sensible default configuration
func DefaultAssemblerConfig() AssemblerConfig {
	return AssemblerConfig{
		DefaultLineBreak: DefaultLineBreakMM,
	}
}

// Assembler fuses OCR lines and vector text fragments into text blocks
type Assembler struct {
	config AssemblerConfig
}

// NewAssembler creates an assembler with default configuration
func NewAssembler() *Assembler {
	return &Assembler{
		config: DefaultAssemblerConfig(),
	}
}

// NewAssemblerWithConfig creates an assembler with custom configuration
func NewAssemblerWithConfig(config AssemblerConfig) *Assembler {
	return &Assembler{
		config: config,
	}
}

// Assemble groups the text of one column into blocks. Without row
// boundaries it works in free flow; with them every row yields exactly one
// block, in row order.
func (a *Assembler) Assemble(in ColumnInput) ColumnBlocks {
	out := ColumnBlocks{Column: in.Column}
	if len(in.Rows) > 0 {
		out.Blocks = a.fixedRows(in)
	} else {
		out.Blocks = a.freeFlow(in)
	}
	return out
}

func (a *Assembler) lineBreak(col Column) float64 {
	if col.LineBreakAfter > 0 {
		return col.LineBreakAfter
	}
	return a.config.DefaultLineBreak
}

// ocrBlocks converts OCR lines into page-space text blocks, skipping blank lines
func ocrBlocks(in ColumnInput) []model.Textblock {
	blocks := make([]model.Textblock, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.Text == "" {
			continue
		}
		blocks = append(blocks, model.Textblock{
			Text: l.Text,
			BBox: lineBox(in, l.Bounds),
		})
	}
	return blocks
}

func lineBox(in ColumnInput, r ocr.Region) model.BBox {
	if in.Crop.Empty() {
		return in.Transform.LineToPage(in.Column, r)
	}
	return in.Transform.CropToPage(in.Crop, r)
}

// columnFragments returns the fragments whose origin lies inside the column (inclusive)
func columnFragments(in ColumnInput) []model.Textblock {
	var blocks []model.Textblock
	for _, f := range in.Fragments {
		if f.Text == "" || !in.Column.BBox.Contains(f.Origin()) {
			continue
		}
		blocks = append(blocks, model.Textblock{Text: f.Text, BBox: f.BBox})
	}
	return blocks
}

// freeFlow groups OCR lines by vertical gap, then merges vector fragments
// into the nearest preceding block or opens new blocks for them.
func (a *Assembler) freeFlow(in ColumnInput) []model.Textblock {
	threshold := a.lineBreak(in.Column)

	// Step 1: group OCR lines in encounter order
	var blocks []model.Textblock
	for _, line := range ocrBlocks(in) {
		if n := len(blocks); n > 0 && line.BBox.MinY()-blocks[n-1].BBox.MaxY() < threshold {
			blocks[n-1].Expand(line)
			continue
		}
		blocks = append(blocks, line)
	}

	// Step 2: merge vector fragments
	for _, frag := range columnFragments(in) {
		i := nearestPreceding(blocks, frag.BBox.MinY())
		if i >= 0 && frag.BBox.MinY()-blocks[i].BBox.MaxY() < threshold {
			blocks[i].Expand(frag)
			continue
		}
		blocks = insertByTop(blocks, frag)
	}

	return blocks
}

// nearestPreceding returns the index of the block starting closest above y
// (at or above it), or -1 if no block starts at or above y.
func nearestPreceding(blocks []model.Textblock, y float64) int {
	best := -1
	for i, b := range blocks {
		if b.BBox.MinY() > y {
			continue
		}
		if best < 0 || b.BBox.MinY() >= blocks[best].BBox.MinY() {
			best = i
		}
	}
	return best
}

// insertByTop inserts b keeping blocks ordered by their top edge
func insertByTop(blocks []model.Textblock, b model.Textblock) []model.Textblock {
	i := sort.Search(len(blocks), func(i int) bool {
		return blocks[i].BBox.MinY() > b.BBox.MinY()
	})
	blocks = append(blocks, model.Textblock{})
	copy(blocks[i+1:], blocks[i:])
	blocks[i] = b
	return blocks
}

// RowRects splits a column into len(boundaries)+1 rectangles at the given
// y-values. Boundaries are sorted first; the outer rows extend to the
// column's top and bottom edges.
func RowRects(col Column, boundaries []float64) []model.BBox {
	ys := append([]float64(nil), boundaries...)
	sort.Float64s(ys)

	rects := make([]model.BBox, 0, len(ys)+1)
	top := col.BBox.MinY()
	for _, y := range ys {
		rects = append(rects, model.NewBBoxFromEdges(col.BBox.MinX(), top, col.BBox.MaxX(), y))
		top = y
	}
	rects = append(rects, model.NewBBoxFromEdges(col.BBox.MinX(), top, col.BBox.MaxX(), col.BBox.MaxY()))
	return rects
}

// fixedRows assigns every OCR line and fragment to the row containing its
// origin. A point on a shared boundary belongs to the upper row.
func (a *Assembler) fixedRows(in ColumnInput) []model.Textblock {
	rects := RowRects(in.Column, in.Rows)

	type item struct {
		block model.Textblock
		seq   int
	}
	perRow := make([][]item, len(rects))
	seq := 0
	assign := func(b model.Textblock) {
		o := b.BBox.Origin()
		for r, rect := range rects {
			if rect.Contains(o) {
				perRow[r] = append(perRow[r], item{b, seq})
				seq++
				return
			}
		}
	}
	for _, b := range ocrBlocks(in) {
		assign(b)
	}
	for _, b := range columnFragments(in) {
		assign(b)
	}

	blocks := make([]model.Textblock, len(rects))
	for r, rect := range rects {
		items := perRow[r]
		// Top to bottom, then left to right, so the two sources interleave
		// by position rather than by source.
		sort.SliceStable(items, func(i, j int) bool {
			oi, oj := items[i].block.BBox.Origin(), items[j].block.BBox.Origin()
			if oi.Y != oj.Y {
				return oi.Y < oj.Y
			}
			if oi.X != oj.X {
				return oi.X < oj.X
			}
			return items[i].seq < items[j].seq
		})
		block := model.Textblock{BBox: rect}
		for _, it := range items {
			block.Text = joinText(block.Text, it.block.Text)
		}
		blocks[r] = block
	}
	return blocks
}

func joinText(a, b string) string {
	switch {
	case b == "":
		return a
	case a == "":
		return b
	default:
		return a + " " + b
	}
}
