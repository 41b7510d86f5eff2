package classify

import "fmt"

// Section is a register section
type Section int

const (
	SectionUnknown Section = iota
	SectionBestandsverzeichnis
	SectionAbt1
	SectionAbt2
	SectionAbt3
)

func (s Section) String() string {
	switch s {
	case SectionBestandsverzeichnis:
		return "Bestandsverzeichnis"
	case SectionAbt1:
		return "Abteilung 1"
	case SectionAbt2:
		return "Abteilung 2"
	case SectionAbt3:
		return "Abteilung 3"
	default:
		return "Unknown"
	}
}

// Orientation of a scanned page
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// OrientationOf returns Landscape iff the raster is wider than it is high
func OrientationOf(widthPx, heightPx int) Orientation {
	if widthPx > heightPx {
		return Landscape
	}
	return Portrait
}

// PageType is the tabular layout variant of a page.
// Horizontal variants are printed on landscape sheets, vertical ones on portrait sheets.
type PageType string

const (
	BvHorz                            PageType = "bv-horz"
	BvHorzZuUndAbschreibungen         PageType = "bv-horz-zu-und-abschreibungen"
	BvVert                            PageType = "bv-vert"
	BvVertTyp2                        PageType = "bv-vert-typ2"
	BvVertZuUndAbschreibungen         PageType = "bv-vert-zu-und-abschreibungen"
	Abt1Horz                          PageType = "abt1-horz"
	Abt1Vert                          PageType = "abt1-vert"
	Abt2Horz                          PageType = "abt2-horz"
	Abt2HorzVeraenderungen            PageType = "abt2-horz-veraenderungen"
	Abt2Vert                          PageType = "abt2-vert"
	Abt2VertVeraenderungen            PageType = "abt2-vert-veraenderungen"
	Abt3Horz                          PageType = "abt3-horz"
	Abt3HorzVeraenderungenLoeschungen PageType = "abt3-horz-veraenderungen-loeschungen"
	Abt3Vert                          PageType = "abt3-vert"
	Abt3VertVeraenderungen            PageType = "abt3-vert-veraenderungen"
	Abt3VertLoeschungen               PageType = "abt3-vert-loeschungen"
	Abt3VertVeraenderungenLoeschungen PageType = "abt3-vert-veraenderungen-loeschungen"
)

// AllPageTypes lists every known variant
var AllPageTypes = []PageType{
	BvHorz, BvHorzZuUndAbschreibungen, BvVert, BvVertTyp2, BvVertZuUndAbschreibungen,
	Abt1Horz, Abt1Vert,
	Abt2Horz, Abt2HorzVeraenderungen, Abt2Vert, Abt2VertVeraenderungen,
	Abt3Horz, Abt3HorzVeraenderungenLoeschungen, Abt3Vert, Abt3VertVeraenderungen,
	Abt3VertLoeschungen, Abt3VertVeraenderungenLoeschungen,
}

// ParsePageType validates a page type name, e.g. from operator configuration
func ParsePageType(s string) (PageType, error) {
	for _, pt := range AllPageTypes {
		if string(pt) == s {
			return pt, nil
		}
	}
	return "", fmt.Errorf("unknown page type %q", s)
}

// Section returns the register section the layout belongs to
func (pt PageType) Section() Section {
	switch pt {
	case BvHorz, BvHorzZuUndAbschreibungen, BvVert, BvVertTyp2, BvVertZuUndAbschreibungen:
		return SectionBestandsverzeichnis
	case Abt1Horz, Abt1Vert:
		return SectionAbt1
	case Abt2Horz, Abt2HorzVeraenderungen, Abt2Vert, Abt2VertVeraenderungen:
		return SectionAbt2
	case Abt3Horz, Abt3HorzVeraenderungenLoeschungen, Abt3Vert, Abt3VertVeraenderungen,
		Abt3VertLoeschungen, Abt3VertVeraenderungenLoeschungen:
		return SectionAbt3
	default:
		return SectionUnknown
	}
}

// Orientation returns the sheet orientation the layout is printed on
func (pt PageType) Orientation() Orientation {
	switch pt {
	case BvHorz, BvHorzZuUndAbschreibungen, Abt1Horz, Abt2Horz, Abt2HorzVeraenderungen,
		Abt3Horz, Abt3HorzVeraenderungenLoeschungen:
		return Landscape
	default:
		return Portrait
	}
}
