package rules

import (
	"github.com/tsawler/grundbuch/extract"
	"github.com/tsawler/grundbuch/model"
)

// ParseReference parses the reference column of a right with the built-in
// grammar of extract.ParseReference.
func ParseReference(reference string) []model.Spalte1Eintrag {
	return extract.ParseReference(reference)
}
