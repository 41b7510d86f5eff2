package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/grundbuch/model"
)

const parcelIDs = `(\d+(?:\s*/\s*\d+)?(?:\s*(?:,|und|u\.)\s*\d+(?:\s*/\s*\d+)?)*)`

var (
	// "3 (Flur 2, Flurstück 10/1)"
	numberedFilter = regexp.MustCompile(`(\d+)\s*\(([^)]*)\)`)
	// "Gemarkung Musterdorf Flur 3 Flurstück 10, 11"; Gemarkung and Flur are optional
	parcelFilter = regexp.MustCompile(`(?i)(?:gemarkung\s+(\p{L}[\p{L}-]*)\s*,?\s*)?(?:flur\s*(\d+)\s*,?\s*)?` +
		`(?:flurst(?:ü|u|ue)cke?|flst\.?|fl\.\s?st\.?)\s*(?:nrn?\.?\s*)?` + parcelIDs)
	numberPrefix = regexp.MustCompile(`(?i)\b(?:lfd|ifd)\.?\s*(?:nrn?\.?)?|\bnrn?\.`)
	wordSplit    = regexp.MustCompile(`(?i)\b(?:und|u\.|sowie)(?:\s|$)`)
	rangeWord    = regexp.MustCompile(`(?i)\s+bis\s+`)
	idSplit      = regexp.MustCompile(`(?i)\s*(?:,|und|u\.)\s*`)
	partial      = regexp.MustCompile(`(?i)\b(?:teilweise|tlw\.?|teilw\.?|teilfl(?:ä|ae|a)che|teil)\b`)
	token        = regexp.MustCompile(`[^,;]+`)
)

type positioned struct {
	at  int
	ref model.Spalte1Eintrag
}

// ParseReference parses the reference column of a right into references in
// the order they are written. It understands
//
//	"1, 2"  "1-3"  "1 bis 3"  "lfd. Nr. 4 teilweise"
//	"1 (Flur 2, Flurstück 10/1)"  "Flur 3 Flurstück 10, 11"
//
// Bare Flur/Flurstück phrases become references with BvNr 0 that narrow the
// whole result. Numbers inside a Flur/Flurstück phrase never name a BV entry.
func ParseReference(reference string) []model.Spalte1Eintrag {
	s := reference
	var found []positioned

	for _, m := range numberedFilter.FindAllStringSubmatchIndex(s, -1) {
		nr, ok := ParseNumber(s[m[2]:m[3]])
		if !ok {
			continue
		}
		inner := s[m[4]:m[5]]
		found = append(found, positioned{at: m[0], ref: model.Spalte1Eintrag{
			BvNr:         nr,
			Teilbelastet: partial.MatchString(inner),
			Filter:       parseFilters(inner),
		}})
		s = blank(s, m[0], m[1])
	}

	for _, m := range parcelFilter.FindAllStringSubmatchIndex(s, -1) {
		found = append(found, positioned{at: m[0], ref: model.Spalte1Eintrag{
			Filter: filtersFrom(s, m),
		}})
		s = blank(s, m[0], m[1])
	}

	for _, m := range numberPrefix.FindAllStringIndex(s, -1) {
		s = blank(s, m[0], m[1])
	}
	for _, m := range wordSplit.FindAllStringIndex(s, -1) {
		s = s[:m[0]] + ";" + strings.Repeat(" ", m[1]-m[0]-1) + s[m[1]:]
	}

	for _, m := range token.FindAllStringIndex(s, -1) {
		tok := s[m[0]:m[1]]
		part := partial.MatchString(tok)
		for _, nr := range Numbers(rangeWord.ReplaceAllString(tok, "-")) {
			found = append(found, positioned{at: m[0], ref: model.Spalte1Eintrag{BvNr: nr, Teilbelastet: part}})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].at < found[j].at })
	out := make([]model.Spalte1Eintrag, 0, len(found))
	for _, f := range found {
		out = append(out, f.ref)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseFilters(s string) []model.FlurFlurstueck {
	var out []model.FlurFlurstueck
	for _, m := range parcelFilter.FindAllStringSubmatchIndex(s, -1) {
		out = append(out, filtersFrom(s, m)...)
	}
	return out
}

func filtersFrom(s string, m []int) []model.FlurFlurstueck {
	var gemarkung string
	if m[2] >= 0 {
		gemarkung = s[m[2]:m[3]]
	}
	var flur int
	if m[4] >= 0 {
		flur, _ = ParseNumber(s[m[4]:m[5]])
	}
	var out []model.FlurFlurstueck
	for _, id := range idSplit.Split(s[m[6]:m[7]], -1) {
		if flst, ok := ParseFlurstueck(id); ok {
			out = append(out, model.FlurFlurstueck{Flur: flur, Flurstueck: flst, Gemarkung: gemarkung})
		}
	}
	return out
}

// blank overwrites s[from:to] with spaces so later offsets stay valid
func blank(s string, from, to int) string {
	return s[:from] + strings.Repeat(" ", to-from) + s[to:]
}
