// Package text provides the vector text layer of scanned register pages.
//
// The text layer is exact but layout-unaware: every [Fragment] is a word or
// run of characters with a bounding box in page millimetres, without any
// notion of table rows or columns. Layout-aware grouping happens in the
// layout package, which fuses these fragments with OCR output.
//
// # Text-layer dumps
//
// [ParseBBoxLayout] reads the XHTML bounding-box dump written by common PDF
// text extractors (a <doc> of <page width height> elements holding <word
// xMin yMin xMax yMax> elements, coordinates in PDF points with a top-left
// origin) and converts it to millimetres:
//
//	pages, err := text.ParseBBoxLayout(f)
//	for _, p := range pages {
//	    fmt.Println(p.Index, p.Size.Width, len(p.Fragments))
//	}
package text
