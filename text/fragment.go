package text

import (
	"strings"

	"github.com/tsawler/grundbuch/model"
)

// PointsPerMM converts PDF points to millimetres
const PointsPerMM = 72.0 / 25.4

// Fragment is a positioned piece of vector text in page millimetres
type Fragment struct {
	Text string
	BBox model.BBox
}

// Origin returns the top-left corner used to assign the fragment to a column or row
func (f Fragment) Origin() model.Point {
	return f.BBox.Origin()
}

// Page is the text layer of one page
type Page struct {
	Index     int
	Size      model.Size // millimetres
	Fragments []Fragment
}

// Within returns the fragments whose origin lies inside the box
func (p Page) Within(box model.BBox) []Fragment {
	var out []Fragment
	for _, f := range p.Fragments {
		if box.Contains(f.Origin()) {
			out = append(out, f)
		}
	}
	return out
}

// PlainText joins all fragments with single spaces
func (p Page) PlainText() string {
	parts := make([]string, 0, len(p.Fragments))
	for _, f := range p.Fragments {
		if t := strings.TrimSpace(f.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
