package extract

import (
	"strconv"

	"github.com/tsawler/grundbuch/model"
)

// CheckReferences flags entries of the Abteilungen whose BV-Nr. column names
// a number missing from the Bestandsverzeichnis. Only the BV numbers of the
// parsed column are checked, so Flur and Flurstück numbers are ignored.
// Running it twice adds nothing.
func CheckReferences(gb *model.Grundbuch) {
	bv := &gb.Bestandsverzeichnis
	check := func(e model.Entry, ref string) {
		seen := make(map[int]bool)
		for _, r := range ParseReference(ref) {
			n := r.BvNr
			if n == 0 || seen[n] {
				continue
			}
			seen[n] = true
			if len(bv.Lookup(n)) > 0 {
				continue
			}
			e.Problems().Add(model.Consistencyf("BV-Nr. %d not in Bestandsverzeichnis", n).
				With("bv_nr", ref).
				With("lfd_nr", strconv.Itoa(e.LfdNr())))
		}
	}
	for _, e := range gb.Abteilung1.Eintraege {
		check(e, e.BvNr)
	}
	for _, e := range gb.Abteilung2.Eintraege {
		check(e, e.BvNr)
	}
	for _, e := range gb.Abteilung3.Eintraege {
		check(e, e.BvNr)
	}
}
