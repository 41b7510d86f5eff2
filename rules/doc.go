// Package rules defines the TextRule capability: the text analysis applied
// to the entries of Abteilung 2 and 3 once the register is extracted.
//
// A rule cleans OCR text, classifies a right or a charge, reads amounts,
// beneficiaries and priority notes, and parses the "column 1" reference of
// a right into [model.Spalte1Eintrag] values for the resolver.
//
// [Native] implements every operation with regular expressions. The
// subpackage script evaluates operator-supplied JavaScript and falls back to
// another TextRule for functions the script does not define.
package rules
