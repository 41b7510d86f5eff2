package extract

import (
	"regexp"

	"github.com/tsawler/grundbuch/classify"
	"github.com/tsawler/grundbuch/layout"
	"github.com/tsawler/grundbuch/model"
)

var bvFields = []layout.Field{
	layout.FieldBisherigeLfdNr,
	layout.FieldGemarkung,
	layout.FieldFlur,
	layout.FieldFlurstueck,
	layout.FieldBezeichnung,
	layout.FieldGroesse,
	layout.FieldGroesseHa,
	layout.FieldGroesseA,
	layout.FieldGroesseM2,
}

// zuNrPattern finds the entry a BV right belongs to, e.g. "zu 1" or "zu lfd. Nr. 2, 3"
var zuNrPattern = regexp.MustCompile(`(?i)\bzu\s+(?:lfd\.?\s*)?(?:nr\.?\s*)?(\d+(?:\s*(?:,|u\.|und)\s*\d+)*)`)

// Bestandsverzeichnis extracts and repairs the parcel inventory with its annotations
func (e *Extractor) Bestandsverzeichnis(pages []PageBlocks) model.Bestandsverzeichnis {
	var bv model.Bestandsverzeichnis
	var nr numbering

	for _, p := range sectionPages(pages, classify.SectionBestandsverzeichnis) {
		switch p.Type {
		case classify.BvHorzZuUndAbschreibungen, classify.BvVertZuUndAbschreibungen:
			bv.Zuschreibungen = append(bv.Zuschreibungen,
				bvAnnotations(e.Rows(p, layout.FieldZuschreibungBvNr, layout.FieldZuschreibungText),
					layout.FieldZuschreibungBvNr, layout.FieldZuschreibungText)...)
			bv.Abschreibungen = append(bv.Abschreibungen,
				bvAnnotations(e.Rows(p, layout.FieldAbschreibungBvNr, layout.FieldAbschreibungText),
					layout.FieldAbschreibungBvNr, layout.FieldAbschreibungText)...)
		default:
			for _, row := range e.Rows(p, layout.FieldLfdNr, bvFields...) {
				bv.Eintraege = append(bv.Eintraege, bvEntry(row, &nr))
			}
		}
	}

	bv.Eintraege = Repair(bv.Eintraege, e.config.Repair)
	e.logger.Debug("extracted section", "section", classify.SectionBestandsverzeichnis, "entries", len(bv.Eintraege))
	return bv
}

func bvEntry(row Row, nr *numbering) model.BvEintrag {
	var problems model.Problems
	lfd := nr.next(row.Cell(layout.FieldLfdNr), &problems)
	bisherige, _ := ParseNumber(row.Cell(layout.FieldBisherigeLfdNr))

	flurText := row.Cell(layout.FieldFlur)
	flstText := row.Cell(layout.FieldFlurstueck)
	text := clean(row.Cell(layout.FieldBezeichnung))

	// Rights have no cadastral designation, only text. A zero-row is always
	// read as a parcel so its fields can be absorbed by its predecessor.
	if lfd != 0 && flurText == "" && flstText == "" && text != "" && !hasArea(row) {
		r := &model.BvRecht{
			Nr:          lfd,
			BisherigeNr: bisherige,
			Text:        text,
			Pos:         row.Position(),
			Diagnostics: problems,
		}
		if m := zuNrPattern.FindStringSubmatch(text); m != nil {
			r.ZuNr = m[1]
		} else {
			r.Diagnostics.Add(model.Warningf("right without \"zu Nr.\" reference"))
		}
		return r
	}

	f := &model.BvFlurstueck{
		Nr:          lfd,
		BisherigeNr: bisherige,
		Gemarkung:   clean(row.Cell(layout.FieldGemarkung)),
		Bezeichnung: text,
		Pos:         row.Position(),
		Diagnostics: problems,
	}
	if flur, ok := ParseNumber(flurText); ok {
		f.Flur = flur
	} else if flurText != "" {
		f.Diagnostics.Add(model.Warningf("unreadable Flur %q", flurText))
	}
	if id, ok := ParseFlurstueck(flstText); ok {
		f.Flurstueck = id
	} else if flstText != "" {
		f.Diagnostics.Add(model.Warningf("unreadable Flurstück %q", flstText))
	}
	f.Groesse = parseGroesse(row, &f.Diagnostics)

	// Zero-rows are judged by the repair pass; only numbered parcels
	// are expected to be complete.
	if lfd != 0 {
		if f.Flur == 0 && flurText == "" {
			f.Diagnostics.Add(model.Warningf("Flur missing"))
		}
		if f.Flurstueck == "" && flstText == "" {
			f.Diagnostics.Add(model.Warningf("Flurstück missing"))
		}
		if f.Groesse.IsZero() {
			f.Diagnostics.Add(model.Warningf("Größe missing"))
		}
	}
	return f
}

func hasArea(row Row) bool {
	for _, f := range []layout.Field{layout.FieldGroesse, layout.FieldGroesseHa, layout.FieldGroesseA, layout.FieldGroesseM2} {
		if row.Cell(f) != "" {
			return true
		}
	}
	return false
}

// parseGroesse reads either the single m² column or the ha / a / m² columns
func parseGroesse(row Row, problems *model.Problems) model.Groesse {
	if cell := row.Cell(layout.FieldGroesse); cell != "" {
		m2, ok := ParseArea(cell)
		if !ok {
			problems.Add(model.Warningf("unreadable Größe %q", cell))
		}
		return model.Groesse{Unit: model.GroesseMetrisch, M2: m2}
	}

	g := model.Groesse{Unit: model.GroesseHektar}
	parts := []struct {
		field layout.Field
		dst   *uint64
	}{
		{layout.FieldGroesseHa, &g.Ha},
		{layout.FieldGroesseA, &g.A},
		{layout.FieldGroesseM2, &g.M2},
	}
	for _, part := range parts {
		cell := row.Cell(part.field)
		if cell == "" {
			continue
		}
		v, ok := ParseArea(cell)
		if !ok {
			problems.Add(model.Warningf("unreadable %s %q", part.field, cell))
			continue
		}
		*part.dst = v
	}
	return g
}

func bvAnnotations(rows []Row, ref, txt layout.Field) []*model.BvAnnotation {
	out := make([]*model.BvAnnotation, 0, len(rows))
	for _, row := range rows {
		a := &model.BvAnnotation{
			BvNr: clean(row.Cell(ref)),
			Text: clean(row.Cell(txt)),
			Pos:  row.Position(),
		}
		if a.BvNr == "" && a.Text == "" {
			continue
		}
		if a.BvNr == "" {
			a.Diagnostics.Add(model.Warningf("annotation without BV number"))
		}
		out = append(out, a)
	}
	return out
}
