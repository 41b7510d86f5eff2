package layout

import (
	"github.com/tsawler/grundbuch/classify"
	"github.com/tsawler/grundbuch/model"
)

// Override adjusts a column on one page. Nil fields keep the built-in value.
type Override struct {
	MinX           *float64
	MinY           *float64
	MaxX           *float64
	MaxY           *float64
	LineBreakAfter *float64
}

// Float returns a pointer to v, for building overrides
func Float(v float64) *float64 {
	return &v
}

// IsZero reports whether the override changes nothing
func (o Override) IsZero() bool {
	return o.MinX == nil && o.MinY == nil && o.MaxX == nil && o.MaxY == nil && o.LineBreakAfter == nil
}

// Apply returns the column with the override's coordinates in place of the defaults
func (o Override) Apply(c Column) Column {
	minX, minY, maxX, maxY := c.BBox.MinX(), c.BBox.MinY(), c.BBox.MaxX(), c.BBox.MaxY()
	if o.MinX != nil {
		minX = *o.MinX
	}
	if o.MinY != nil {
		minY = *o.MinY
	}
	if o.MaxX != nil {
		maxX = *o.MaxX
	}
	if o.MaxY != nil {
		maxY = *o.MaxY
	}
	c.BBox = model.NewBBoxFromEdges(minX, minY, maxX, maxY)
	if o.LineBreakAfter != nil {
		c.LineBreakAfter = *o.LineBreakAfter
	}
	return c
}

// Mapper supplies the columns of a page, with operator adjustments taking
// precedence over the built-in tables. A Mapper is not safe for concurrent
// mutation; configure it before use and only read afterwards.
type Mapper struct {
	overrides        map[int]map[string]Override
	lineBreak        float64
	numericLineBreak float64
}

// NewMapper creates a mapper without overrides
func NewMapper() *Mapper {
	return &Mapper{
		overrides:        make(map[int]map[string]Override),
		lineBreak:        DefaultLineBreakMM,
		numericLineBreak: DefaultNumericLineBreakMM,
	}
}

// SetLineBreaks replaces the line-break gaps of text and numeric columns
// on every page. Zero keeps the current value.
func (m *Mapper) SetLineBreaks(text, numeric float64) {
	if text > 0 {
		m.lineBreak = text
	}
	if numeric > 0 {
		m.numericLineBreak = numeric
	}
}

// SetOverride records an adjustment of column id on page.
// Setting an override twice for the same column replaces the first.
func (m *Mapper) SetOverride(page int, id string, o Override) {
	cols, ok := m.overrides[page]
	if !ok {
		cols = make(map[string]Override)
		m.overrides[page] = cols
	}
	cols[id] = o
}

// Override returns the adjustment recorded for a column, if any
func (m *Mapper) Override(page int, id string) (Override, bool) {
	o, ok := m.overrides[page][id]
	return o, ok
}

// Columns returns the columns of a page with its overrides applied
func (m *Mapper) Columns(page int, pt classify.PageType) ([]Column, error) {
	cols, err := DefaultColumns(pt)
	if err != nil {
		return nil, err
	}
	for i, c := range cols {
		if c.Numeric {
			cols[i].LineBreakAfter = m.numericLineBreak
		} else {
			cols[i].LineBreakAfter = m.lineBreak
		}
		if o, ok := m.overrides[page][c.ID]; ok {
			cols[i] = o.Apply(cols[i])
		}
	}
	return cols, nil
}
