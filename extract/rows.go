package extract

import (
	"slices"

	"github.com/tsawler/grundbuch/classify"
	"github.com/tsawler/grundbuch/layout"
	"github.com/tsawler/grundbuch/model"
)

// PageBlocks is the assembled text of one classified page
type PageBlocks struct {
	Index   int
	Type    classify.PageType
	Columns []layout.ColumnBlocks
}

// Blocks returns the blocks of the column feeding field
func (p PageBlocks) Blocks(field layout.Field) ([]model.Textblock, bool) {
	for _, c := range p.Columns {
		if c.Column.Field == field {
			return c.Blocks, true
		}
	}
	return nil, false
}

// Row is one table row of a page: the text of each column and the rectangle
// the row covers
type Row struct {
	Page  int
	BBox  model.BBox
	Cells map[layout.Field]string
	// Orphan rows were opened by a non-anchor block no anchor row could take
	Orphan bool
}

// Cell returns the text of a column, empty when the row has none
func (r Row) Cell(f layout.Field) string {
	return r.Cells[f]
}

// Position returns where the row was read from
func (r Row) Position() model.Position {
	return model.Position{Page: r.Page, BBox: r.BBox}
}

// rowSlack tolerates a non-anchor block starting slightly above its anchor,
// which OCR baseline jitter produces routinely.
const rowSlack = 2.0

// Rows forms the rows of one table on a page. anchor names the column that
// opens rows; fields lists the other columns of the same table.
func (e *Extractor) Rows(p PageBlocks, anchor layout.Field, fields ...layout.Field) []Row {
	anchors, _ := p.Blocks(anchor)
	rows := make([]*Row, 0, len(anchors))
	for _, b := range anchors {
		rows = append(rows, &Row{
			Page:  p.Index,
			BBox:  b.BBox,
			Cells: map[layout.Field]string{anchor: b.Text},
		})
	}

	// Orphans inserted into rows must not shift the positional match of
	// later columns
	anchorRows := slices.Clone(rows)

	for _, f := range fields {
		blocks, _ := p.Blocks(f)
		if len(blocks) == 0 {
			continue
		}
		if len(blocks) == len(anchorRows) {
			for i, b := range blocks {
				anchorRows[i].add(f, b)
			}
			continue
		}
		for _, b := range blocks {
			if r := e.matchRow(rows, b); r != nil {
				r.add(f, b)
				continue
			}
			orphan := &Row{Page: p.Index, Orphan: true, Cells: map[layout.Field]string{}}
			orphan.add(f, b)
			rows = insertRow(rows, orphan)
		}
	}

	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = *r
	}
	return out
}

// matchRow returns the last row starting at most RowLookback above b
func (e *Extractor) matchRow(rows []*Row, b model.Textblock) *Row {
	top := b.BBox.MinY()
	var best *Row
	for _, r := range rows {
		start := r.BBox.MinY()
		if start > top+rowSlack || top-start > e.config.RowLookback {
			continue
		}
		if best == nil || start > best.BBox.MinY() {
			best = r
		}
	}
	return best
}

func (r *Row) add(f layout.Field, b model.Textblock) {
	cell := model.Textblock{Text: r.Cells[f]}
	cell.Expand(b)
	r.Cells[f] = cell.Text
	r.BBox = r.BBox.Union(b.BBox)
}

func insertRow(rows []*Row, r *Row) []*Row {
	i := len(rows)
	for j, existing := range rows {
		if existing.BBox.MinY() > r.BBox.MinY() {
			i = j
			break
		}
	}
	rows = append(rows, nil)
	copy(rows[i+1:], rows[i:])
	rows[i] = r
	return rows
}
