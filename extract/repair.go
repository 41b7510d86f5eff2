package extract

import (
	"strconv"

	"github.com/tsawler/grundbuch/model"
)

// RepairConfig holds the gap sizes of the monotonicity repair. They are
// tuned on the observed register family and not universal.
type RepairConfig struct {
	// FillGap: when the next valid number is last+FillGap, an irregular
	// record becomes last+1 (default: 2)
	FillGap int

	// JoinGap: when the next valid number is last+JoinGap and the irregular
	// record names last as its predecessor, it takes the next number (default: 1)
	JoinGap int
}

// DefaultRepairConfig returns the default gap sizes
func DefaultRepairConfig() RepairConfig {
	return RepairConfig{FillGap: 2, JoinGap: 1}
}

// Repair runs zero-row absorption and monotonicity repair over the records
// of one section and returns the repaired list. Running it again on its own
// output changes nothing.
//
// A zero-row is dropped only once its predecessor has taken all of its
// fields. A zero-row that still carries data, such as a second parcel under
// the same number, is kept under the predecessor's number with a warning
// rather than discarded.
func Repair[E model.Entry](entries []E, cfg RepairConfig) []E {
	entries = AbsorbZeroRows(entries)
	RepairMonotonicity(entries, cfg)
	return entries
}

// AbsorbZeroRows folds records numbered 0 into the preceding numbered record.
// Fields the predecessor lacks are moved over; an emptied zero-row is
// dropped, a zero-row still carrying data inherits the predecessor's number.
// A zero-row without a predecessor is kept and flagged.
func AbsorbZeroRows[E model.Entry](entries []E) []E {
	out := make([]E, 0, len(entries))
	prev := -1 // index into out of the last numbered record
	for _, e := range entries {
		if e.LfdNr() != 0 {
			out = append(out, e)
			prev = len(out) - 1
			continue
		}
		if prev < 0 {
			if !e.IsEmpty() {
				e.Problems().Add(model.Consistencyf("record without lfd. Nr. and no predecessor"))
				out = append(out, e)
			}
			continue
		}
		absorb(out[prev], e)
		if e.IsEmpty() {
			continue
		}
		e.SetLfdNr(out[prev].LfdNr())
		e.Problems().Add(model.Warningf("missing lfd. Nr., continuing %d", e.LfdNr()))
		out = append(out, e)
		prev = len(out) - 1
	}
	return out
}

// absorb moves every field src supplies and dst lacks from src to dst.
// Records of different kinds do not exchange fields.
func absorb(dst, src model.Entry) {
	switch d := dst.(type) {
	case *model.BvFlurstueck:
		s, ok := src.(*model.BvFlurstueck)
		if !ok {
			return
		}
		if d.BisherigeNr == 0 && s.BisherigeNr != 0 {
			d.BisherigeNr, s.BisherigeNr = s.BisherigeNr, 0
		}
		moveString(&d.Gemarkung, &s.Gemarkung)
		if d.Flur == 0 && s.Flur != 0 {
			d.Flur, s.Flur = s.Flur, 0
			d.Diagnostics.Remove(model.Warningf("Flur missing"))
		}
		if moveString(&d.Flurstueck, &s.Flurstueck) {
			d.Diagnostics.Remove(model.Warningf("Flurstück missing"))
		}
		moveString(&d.Bezeichnung, &s.Bezeichnung)
		if d.Groesse.IsZero() && !s.Groesse.IsZero() {
			d.Groesse, s.Groesse = s.Groesse, model.Groesse{}
			d.Diagnostics.Remove(model.Warningf("Größe missing"))
		}
	case *model.BvRecht:
		s, ok := src.(*model.BvRecht)
		if !ok {
			return
		}
		if d.BisherigeNr == 0 && s.BisherigeNr != 0 {
			d.BisherigeNr, s.BisherigeNr = s.BisherigeNr, 0
		}
		moveString(&d.ZuNr, &s.ZuNr)
		moveString(&d.Text, &s.Text)
	case *model.Abt1Eintrag:
		s, ok := src.(*model.Abt1Eintrag)
		if !ok {
			return
		}
		if moveString(&d.Eigentuemer, &s.Eigentuemer) {
			d.Diagnostics.Remove(model.Warningf("Eigentümer missing"))
		}
		moveString(&d.BvNr, &s.BvNr)
		moveString(&d.Grundlage, &s.Grundlage)
	case *model.Abt2Eintrag:
		s, ok := src.(*model.Abt2Eintrag)
		if !ok {
			return
		}
		if moveString(&d.BvNr, &s.BvNr) {
			d.Diagnostics.Remove(model.Warningf("BV-Nr. missing"))
		}
		moveString(&d.Text, &s.Text)
	case *model.Abt3Eintrag:
		s, ok := src.(*model.Abt3Eintrag)
		if !ok {
			return
		}
		if moveString(&d.BvNr, &s.BvNr) {
			d.Diagnostics.Remove(model.Warningf("BV-Nr. missing"))
		}
		if moveString(&d.Betrag, &s.Betrag) {
			d.Diagnostics.Remove(model.Warningf("Betrag missing"))
		}
		moveString(&d.Text, &s.Text)
	}
}

func moveString(dst, src *string) bool {
	if *dst != "" || *src == "" {
		return false
	}
	*dst, *src = *src, ""
	return true
}

// RepairMonotonicity corrects numbers that drop below the last valid number.
// Equal consecutive numbers are legitimate (several parcels under one
// number) and left alone.
func RepairMonotonicity[E model.Entry](entries []E, cfg RepairConfig) {
	last := 0
	for i, e := range entries {
		cur := e.LfdNr()
		if cur >= last {
			last = cur
			continue
		}

		next, ok := nextValid(entries[i+1:], last)
		switch {
		case ok && next-last == cfg.FillGap:
			fixed := last + 1
			e.SetLfdNr(fixed)
			e.Problems().Add(model.Problem{
				Severity: model.SeverityInfo,
				Kind:     model.KindConsistency,
				Message:  "lfd. Nr. corrected from " + strconv.Itoa(cur) + " to " + strconv.Itoa(fixed),
			})
			last = fixed
		case ok && next-last == cfg.JoinGap && e.Bisherige() == last:
			e.SetLfdNr(next)
			e.Problems().Add(model.Problem{
				Severity: model.SeverityInfo,
				Kind:     model.KindConsistency,
				Message:  "lfd. Nr. corrected from " + strconv.Itoa(cur) + " to " + strconv.Itoa(next),
			})
			last = next
		default:
			p := model.Consistencyf("lfd. Nr. %d follows %d", cur, last).
				With("previous", strconv.Itoa(last))
			if ok {
				p = p.With("next", strconv.Itoa(next))
			}
			e.Problems().Add(p)
		}
	}
}

// nextValid returns the first number at or above last among the following records
func nextValid[E model.Entry](rest []E, last int) (int, bool) {
	for _, e := range rest {
		if n := e.LfdNr(); n >= last {
			return n, true
		}
	}
	return 0, false
}
