package layout

import (
	"fmt"

	"github.com/tsawler/grundbuch/classify"
	"github.com/tsawler/grundbuch/model"
)

// Field names the record field a column feeds
type Field string

const (
	FieldLfdNr          Field = "lfd-nr"
	FieldBisherigeLfdNr Field = "bisherige-lfd-nr"
	FieldGemarkung      Field = "gemarkung"
	FieldFlur           Field = "flur"
	FieldFlurstueck     Field = "flurstueck"
	FieldBezeichnung    Field = "bezeichnung"
	FieldGroesse        Field = "groesse" // single m² column
	FieldGroesseHa      Field = "groesse-ha"
	FieldGroesseA       Field = "groesse-a"
	FieldGroesseM2      Field = "groesse-m2"

	FieldZuschreibungBvNr Field = "zuschreibung-bv-nr"
	FieldZuschreibungText Field = "zuschreibung-text"
	FieldAbschreibungBvNr Field = "abschreibung-bv-nr"
	FieldAbschreibungText Field = "abschreibung-text"

	FieldEigentuemer Field = "eigentuemer"
	FieldBvNr        Field = "bv-nr"
	FieldGrundlage   Field = "grundlage"
	FieldText        Field = "text"
	FieldBetrag      Field = "betrag"

	FieldVeraenderungLfdNr  Field = "veraenderung-lfd-nr"
	FieldVeraenderungBetrag Field = "veraenderung-betrag"
	FieldVeraenderungText   Field = "veraenderung-text"
	FieldLoeschungLfdNr     Field = "loeschung-lfd-nr"
	FieldLoeschungBetrag    Field = "loeschung-betrag"
	FieldLoeschungText      Field = "loeschung-text"
)

// Default line-break distances in millimetres. Numeric cells hold a single
// line, so any visible gap separates two entries.
const (
	DefaultLineBreakMM        = 4.5
	DefaultNumericLineBreakMM = 2.0
)

// Column is a named table column of a page layout
type Column struct {
	// ID identifies the column within its page layout
	ID string

	// Field is the record field the column feeds
	Field Field

	// BBox is the column rectangle in page millimetres
	BBox model.BBox

	// Numeric columns hold numbers only. Their OCR runs with a digit whitelist.
	Numeric bool

	// LineBreakAfter is the vertical gap in millimetres at or above which
	// two lines belong to different text blocks
	LineBreakAfter float64
}

// ToLocal converts a page-space point into column space
func (c Column) ToLocal(p model.Point) model.Point {
	return model.Point{X: p.X - c.BBox.X, Y: p.Y - c.BBox.Y}
}

// ToPage converts a column-space point into page space
func (c Column) ToPage(p model.Point) model.Point {
	return model.Point{X: p.X + c.BBox.X, Y: p.Y + c.BBox.Y}
}

// BBoxToPage moves a column-space rectangle into page space
func (c Column) BBoxToPage(b model.BBox) model.BBox {
	return b.Translate(c.BBox.X, c.BBox.Y)
}

// Sheet frames in page millimetres: the printed table area below the header
// of landscape (A4 across) and portrait (A4 upright) sheets.
const (
	landscapeTop    = 30.0
	landscapeBottom = 200.0
	portraitTop     = 35.0
	portraitBottom  = 285.0
	portraitMiddle  = 160.0
)

type colSpec struct {
	field      Field
	minX, maxX float64
	numeric    bool
}

type band struct {
	minY, maxY float64
	cols       []colSpec
}

func num(f Field, minX, maxX float64) colSpec { return colSpec{f, minX, maxX, true} }
func txt(f Field, minX, maxX float64) colSpec { return colSpec{f, minX, maxX, false} }
func landscape(cols ...colSpec) []band        { return []band{{landscapeTop, landscapeBottom, cols}} }
func portrait(cols ...colSpec) []band         { return []band{{portraitTop, portraitBottom, cols}} }
func upper(cols ...colSpec) band              { return band{portraitTop, portraitMiddle, cols} }
func lower(cols ...colSpec) band              { return band{portraitMiddle, portraitBottom, cols} }
func bands(b ...band) []band                  { return b }

var defaultTables = map[classify.PageType][]band{
	classify.BvHorz: landscape(
		num(FieldLfdNr, 15, 25),
		num(FieldBisherigeLfdNr, 25, 37),
		txt(FieldGemarkung, 37, 75),
		num(FieldFlur, 75, 88),
		num(FieldFlurstueck, 88, 110),
		txt(FieldBezeichnung, 110, 230),
		num(FieldGroesseHa, 230, 245),
		num(FieldGroesseA, 245, 257),
		num(FieldGroesseM2, 257, 275),
	),
	classify.BvHorzZuUndAbschreibungen: landscape(
		txt(FieldZuschreibungBvNr, 15, 35),
		txt(FieldZuschreibungText, 35, 150),
		txt(FieldAbschreibungBvNr, 150, 170),
		txt(FieldAbschreibungText, 170, 282),
	),
	classify.BvVert: portrait(
		num(FieldLfdNr, 15, 25),
		num(FieldBisherigeLfdNr, 25, 35),
		txt(FieldGemarkung, 35, 60),
		num(FieldFlur, 60, 70),
		num(FieldFlurstueck, 70, 88),
		txt(FieldBezeichnung, 88, 160),
		num(FieldGroesseHa, 160, 172),
		num(FieldGroesseA, 172, 182),
		num(FieldGroesseM2, 182, 195),
	),
	classify.BvVertTyp2: portrait(
		num(FieldLfdNr, 15, 25),
		num(FieldBisherigeLfdNr, 25, 35),
		txt(FieldGemarkung, 35, 62),
		num(FieldFlur, 62, 72),
		num(FieldFlurstueck, 72, 90),
		txt(FieldBezeichnung, 90, 170),
		num(FieldGroesse, 170, 195),
	),
	classify.BvVertZuUndAbschreibungen: bands(
		upper(txt(FieldZuschreibungBvNr, 15, 35), txt(FieldZuschreibungText, 35, 195)),
		lower(txt(FieldAbschreibungBvNr, 15, 35), txt(FieldAbschreibungText, 35, 195)),
	),
	classify.Abt1Horz: landscape(
		num(FieldLfdNr, 15, 28),
		txt(FieldEigentuemer, 28, 150),
		txt(FieldBvNr, 150, 175),
		txt(FieldGrundlage, 175, 282),
	),
	classify.Abt1Vert: portrait(
		num(FieldLfdNr, 15, 25),
		txt(FieldEigentuemer, 25, 105),
		txt(FieldBvNr, 105, 125),
		txt(FieldGrundlage, 125, 195),
	),
	classify.Abt2Horz: landscape(
		num(FieldLfdNr, 15, 30),
		txt(FieldBvNr, 30, 55),
		txt(FieldText, 55, 282),
	),
	classify.Abt2HorzVeraenderungen: landscape(
		txt(FieldVeraenderungLfdNr, 15, 35),
		txt(FieldVeraenderungText, 35, 150),
		txt(FieldLoeschungLfdNr, 150, 170),
		txt(FieldLoeschungText, 170, 282),
	),
	classify.Abt2Vert: portrait(
		num(FieldLfdNr, 15, 27),
		txt(FieldBvNr, 27, 45),
		txt(FieldText, 45, 195),
	),
	classify.Abt2VertVeraenderungen: bands(
		upper(txt(FieldVeraenderungLfdNr, 15, 30), txt(FieldVeraenderungText, 30, 195)),
		lower(txt(FieldLoeschungLfdNr, 15, 30), txt(FieldLoeschungText, 30, 195)),
	),
	classify.Abt3Horz: landscape(
		num(FieldLfdNr, 15, 28),
		txt(FieldBvNr, 28, 50),
		txt(FieldBetrag, 50, 90),
		txt(FieldText, 90, 282),
	),
	classify.Abt3HorzVeraenderungenLoeschungen: landscape(
		txt(FieldVeraenderungLfdNr, 15, 30),
		txt(FieldVeraenderungBetrag, 30, 55),
		txt(FieldVeraenderungText, 55, 150),
		txt(FieldLoeschungLfdNr, 150, 165),
		txt(FieldLoeschungBetrag, 165, 190),
		txt(FieldLoeschungText, 190, 282),
	),
	classify.Abt3Vert: portrait(
		num(FieldLfdNr, 15, 25),
		txt(FieldBvNr, 25, 42),
		txt(FieldBetrag, 42, 75),
		txt(FieldText, 75, 195),
	),
	classify.Abt3VertVeraenderungen: portrait(
		txt(FieldVeraenderungLfdNr, 15, 30),
		txt(FieldVeraenderungBetrag, 30, 60),
		txt(FieldVeraenderungText, 60, 195),
	),
	classify.Abt3VertLoeschungen: portrait(
		txt(FieldLoeschungLfdNr, 15, 30),
		txt(FieldLoeschungBetrag, 30, 60),
		txt(FieldLoeschungText, 60, 195),
	),
	classify.Abt3VertVeraenderungenLoeschungen: bands(
		upper(
			txt(FieldVeraenderungLfdNr, 15, 30),
			txt(FieldVeraenderungBetrag, 30, 60),
			txt(FieldVeraenderungText, 60, 195),
		),
		lower(
			txt(FieldLoeschungLfdNr, 15, 30),
			txt(FieldLoeschungBetrag, 30, 60),
			txt(FieldLoeschungText, 60, 195),
		),
	),
}

// DefaultColumns returns the built-in column list of a page layout, ordered
// left to right and top to bottom. The returned slice is a fresh copy.
func DefaultColumns(pt classify.PageType) ([]Column, error) {
	table, ok := defaultTables[pt]
	if !ok {
		return nil, fmt.Errorf("no column table for page type %q", pt)
	}
	var cols []Column
	for _, b := range table {
		for _, s := range b.cols {
			lineBreak := DefaultLineBreakMM
			if s.numeric {
				lineBreak = DefaultNumericLineBreakMM
			}
			cols = append(cols, Column{
				ID:             string(s.field),
				Field:          s.field,
				BBox:           model.NewBBoxFromEdges(s.minX, b.minY, s.maxX, b.maxY),
				Numeric:        s.numeric,
				LineBreakAfter: lineBreak,
			})
		}
	}
	return cols, nil
}

// Lookup returns the column feeding field, if the list has one
func Lookup(cols []Column, field Field) (Column, bool) {
	for _, c := range cols {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}
