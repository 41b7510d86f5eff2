// Package layout maps register pages onto their table columns and fuses the
// two text sources of a column into logical text blocks.
//
// # Columns
//
// Every [classify.PageType] has a built-in list of [Column] geometries in page
// millimetres. A [Mapper] applies per-page operator adjustments on top of
// that table:
//
//	m := layout.NewMapper()
//	m.SetOverride(4, "bezeichnung", layout.Override{MaxX: layout.Float(240)})
//	cols, err := m.Columns(4, classify.BvHorz)
//
// # Coordinate spaces
//
// Three spaces are in use. Page space is millimetres from the top-left corner
// of the sheet, y growing downward; the vector text layer and all records use
// it. Raster space is pixels of the page scan; OCR boxes are pixels of the
// cropped column image. Column space is millimetres relative to a column's
// top-left corner. [Transform] converts between page and raster space from
// the sheet size and the image size, and [Column.ToPage] / [Column.ToLocal]
// move between page and column space.
//
// # Cropping
//
// Columns are cut from a [PageImage] after every vector text fragment has
// been painted white, so OCR only sees what the text layer did not capture.
// A [Cropper] stores crops in the on-disk cache.
//
// # Text blocks
//
// The [Assembler] groups OCR lines and vector fragments of one column into
// [model.Textblock] values, either by vertical gaps (free flow) or into
// operator-defined rows (fixed rows).
package layout
