package extract

import (
	"strings"

	"github.com/tsawler/grundbuch/classify"
	"github.com/tsawler/grundbuch/layout"
	"github.com/tsawler/grundbuch/model"
)

// Abteilung1 extracts and repairs the ownership section
func (e *Extractor) Abteilung1(pages []PageBlocks) model.Abteilung1 {
	var abt model.Abteilung1
	var nr numbering
	for _, p := range sectionPages(pages, classify.SectionAbt1) {
		for _, row := range e.Rows(p, layout.FieldLfdNr, layout.FieldEigentuemer, layout.FieldBvNr, layout.FieldGrundlage) {
			entry := &model.Abt1Eintrag{
				Eigentuemer: clean(row.Cell(layout.FieldEigentuemer)),
				BvNr:        clean(row.Cell(layout.FieldBvNr)),
				Grundlage:   clean(row.Cell(layout.FieldGrundlage)),
				Pos:         row.Position(),
			}
			entry.Nr = nr.next(row.Cell(layout.FieldLfdNr), &entry.Diagnostics)
			if entry.Nr != 0 && entry.Eigentuemer == "" {
				entry.Diagnostics.Add(model.Warningf("Eigentümer missing"))
			}
			abt.Eintraege = append(abt.Eintraege, entry)
		}
	}
	abt.Eintraege = Repair(abt.Eintraege, e.config.Repair)
	e.logger.Debug("extracted section", "section", classify.SectionAbt1, "entries", len(abt.Eintraege))
	return abt
}

// Abteilung2 extracts and repairs the encumbrance section with its annotations
func (e *Extractor) Abteilung2(pages []PageBlocks) model.Abteilung2 {
	var abt model.Abteilung2
	var nr numbering
	for _, p := range sectionPages(pages, classify.SectionAbt2) {
		if isAnnotationPage(p.Type) {
			v, l := e.annotations(p)
			abt.Veraenderungen = append(abt.Veraenderungen, v...)
			abt.Loeschungen = append(abt.Loeschungen, l...)
			continue
		}
		for _, row := range e.Rows(p, layout.FieldLfdNr, layout.FieldBvNr, layout.FieldText) {
			entry := &model.Abt2Eintrag{
				BvNr: clean(row.Cell(layout.FieldBvNr)),
				Text: clean(row.Cell(layout.FieldText)),
				Pos:  row.Position(),
			}
			entry.Nr = nr.next(row.Cell(layout.FieldLfdNr), &entry.Diagnostics)
			if entry.Nr != 0 && entry.BvNr == "" {
				entry.Diagnostics.Add(model.Warningf("BV-Nr. missing"))
			}
			abt.Eintraege = append(abt.Eintraege, entry)
		}
	}
	abt.Eintraege = Repair(abt.Eintraege, e.config.Repair)
	e.logger.Debug("extracted section", "section", classify.SectionAbt2, "entries", len(abt.Eintraege))
	return abt
}

// Abteilung3 extracts and repairs the charge section with its annotations
func (e *Extractor) Abteilung3(pages []PageBlocks) model.Abteilung3 {
	var abt model.Abteilung3
	var nr numbering
	for _, p := range sectionPages(pages, classify.SectionAbt3) {
		if isAnnotationPage(p.Type) {
			v, l := e.annotations(p)
			abt.Veraenderungen = append(abt.Veraenderungen, v...)
			abt.Loeschungen = append(abt.Loeschungen, l...)
			continue
		}
		for _, row := range e.Rows(p, layout.FieldLfdNr, layout.FieldBvNr, layout.FieldBetrag, layout.FieldText) {
			entry := &model.Abt3Eintrag{
				BvNr:   clean(row.Cell(layout.FieldBvNr)),
				Betrag: clean(row.Cell(layout.FieldBetrag)),
				Text:   clean(row.Cell(layout.FieldText)),
				Pos:    row.Position(),
			}
			entry.Nr = nr.next(row.Cell(layout.FieldLfdNr), &entry.Diagnostics)
			if entry.Nr != 0 {
				if entry.BvNr == "" {
					entry.Diagnostics.Add(model.Warningf("BV-Nr. missing"))
				}
				if entry.Betrag == "" {
					entry.Diagnostics.Add(model.Warningf("Betrag missing"))
				}
			}
			abt.Eintraege = append(abt.Eintraege, entry)
		}
	}
	abt.Eintraege = Repair(abt.Eintraege, e.config.Repair)
	e.logger.Debug("extracted section", "section", classify.SectionAbt3, "entries", len(abt.Eintraege))
	return abt
}

func isAnnotationPage(pt classify.PageType) bool {
	switch pt {
	case classify.Abt2HorzVeraenderungen, classify.Abt2VertVeraenderungen,
		classify.Abt3HorzVeraenderungenLoeschungen, classify.Abt3VertVeraenderungen,
		classify.Abt3VertLoeschungen, classify.Abt3VertVeraenderungenLoeschungen:
		return true
	}
	return false
}

// annotations reads the Veränderungen and Löschungen tables of a page.
// Tables the layout does not have yield nothing.
func (e *Extractor) annotations(p PageBlocks) (veraenderungen, loeschungen []*model.AbtAnnotation) {
	veraenderungen = abtAnnotations(e.Rows(p, layout.FieldVeraenderungLfdNr,
		layout.FieldVeraenderungBetrag, layout.FieldVeraenderungText),
		layout.FieldVeraenderungLfdNr, layout.FieldVeraenderungBetrag, layout.FieldVeraenderungText)
	loeschungen = abtAnnotations(e.Rows(p, layout.FieldLoeschungLfdNr,
		layout.FieldLoeschungBetrag, layout.FieldLoeschungText),
		layout.FieldLoeschungLfdNr, layout.FieldLoeschungBetrag, layout.FieldLoeschungText)
	return veraenderungen, loeschungen
}

func abtAnnotations(rows []Row, ref, betrag, txt layout.Field) []*model.AbtAnnotation {
	out := make([]*model.AbtAnnotation, 0, len(rows))
	for _, row := range rows {
		a := &model.AbtAnnotation{
			LfdNr:  clean(row.Cell(ref)),
			Betrag: clean(row.Cell(betrag)),
			Text:   clean(row.Cell(txt)),
			Pos:    row.Position(),
		}
		if a.LfdNr == "" && a.Betrag == "" && a.Text == "" {
			continue
		}
		if a.LfdNr == "" {
			a.Diagnostics.Add(model.Warningf("annotation without lfd. Nr."))
		}
		out = append(out, a)
	}
	return out
}

// clean collapses runs of whitespace
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
