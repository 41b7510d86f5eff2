package grundbuch

import (
	"encoding/json"
	"sort"

	"github.com/tsawler/grundbuch/classify"
	"github.com/tsawler/grundbuch/model"
	"github.com/tsawler/grundbuch/resolve"
	"github.com/tsawler/grundbuch/rules"
)

// Result is the outcome of one extraction run
type Result struct {
	// RunID identifies the run in logs
	RunID     string                    `json:"run_id"`
	Grundbuch *model.Grundbuch          `json:"grundbuch"`
	PageTypes map[int]classify.PageType `json:"page_types"`
	// PageErrors holds the pages that were skipped, with the reason
	PageErrors map[int]error  `json:"-"`
	Rights     []AnalysedRight `json:"rights"`
}

// AnalysedRight is an Abteilung 2 or 3 entry with the outcome of the text
// rules and the parcels it encumbers
type AnalysedRight struct {
	Abteilung int            `json:"abteilung"`
	LfdNr     int            `json:"lfd_nr"`
	Reference string         `json:"reference"`
	Position  model.Position `json:"position"`
	Cancelled bool           `json:"cancelled"`

	// Text is the cleaned legal text
	Text      string   `json:"text"`
	Sentences []string `json:"sentences,omitempty"`

	RightType    rules.RightType `json:"right_type,omitempty"`
	DebtType     rules.DebtType  `json:"debt_type,omitempty"`
	Amount       *rules.Amount   `json:"amount,omitempty"`
	Rightsholder string          `json:"rightsholder,omitempty"`
	Rangvermerk  string          `json:"rangvermerk,omitempty"`
	// Eingetragen is the registration date as written, e.g. "01.02.1990"
	Eingetragen string `json:"eingetragen,omitempty"`

	References []model.Spalte1Eintrag `json:"references,omitempty"`
	Parcels    []resolve.Parcel       `json:"parcels"`
	// Diagnostic is set when no parcel could be resolved
	Diagnostic *resolve.Diagnostic `json:"diagnostic,omitempty"`
	Problems   model.Problems      `json:"problems,omitempty"`
}

// FailedPages returns the skipped pages in ascending order
func (r Result) FailedPages() []int {
	pages := make([]int, 0, len(r.PageErrors))
	for p := range r.PageErrors {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// MarshalJSON renders page errors as their messages
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	var errs map[int]string
	if len(r.PageErrors) > 0 {
		errs = make(map[int]string, len(r.PageErrors))
		for p, err := range r.PageErrors {
			errs[p] = err.Error()
		}
	}
	return json.Marshal(struct {
		plain
		PageErrors map[int]string `json:"page_errors,omitempty"`
	}{plain(r), errs})
}
