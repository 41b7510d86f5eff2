package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/tsawler/grundbuch/model"
)

var (
	// ErrNotImplemented is returned by a rule that does not provide an operation
	ErrNotImplemented = errors.New("rule not implemented")
	// ErrNoMatch is returned when the text holds nothing the operation looks for
	ErrNoMatch = errors.New("no match")
)

// RightType is the variant of an Abteilung 2 entry
type RightType string

const (
	RightUnknown        RightType = ""
	RightWegerecht      RightType = "wegerecht"
	RightLeitungsrecht  RightType = "leitungsrecht"
	RightVorkaufsrecht  RightType = "vorkaufsrecht"
	RightNiessbrauch    RightType = "niessbrauch"
	RightWohnungsrecht  RightType = "wohnungsrecht"
	RightReallast       RightType = "reallast"
	RightVormerkung     RightType = "vormerkung"
	RightErbbaurecht    RightType = "erbbaurecht"
	RightVermerk        RightType = "vermerk"
	RightDienstbarkeit  RightType = "dienstbarkeit"
	RightVerfuegungsbes RightType = "verfuegungsbeschraenkung"
)

// DebtType is the variant of an Abteilung 3 entry
type DebtType string

const (
	DebtUnknown            DebtType = ""
	DebtGrundschuld        DebtType = "grundschuld"
	DebtHypothek           DebtType = "hypothek"
	DebtSicherungshypothek DebtType = "sicherungshypothek"
	DebtRentenschuld       DebtType = "rentenschuld"
)

// Amount is a sum of money in minor units
type Amount struct {
	Cents    int64  `json:"cents"`
	Currency string `json:"currency"`
}

func (a Amount) String() string {
	return fmt.Sprintf("%d,%02d %s", a.Cents/100, a.Cents%100, a.Currency)
}

// TextRule is the pluggable text analysis of register entries.
// Implementations must be safe for concurrent use.
type TextRule interface {
	// Clean repairs OCR artefacts in the text of an entry
	Clean(ctx context.Context, text string) (string, error)
	ClassifyRight(ctx context.Context, text string, sentences []string) (RightType, error)
	ClassifyDebt(ctx context.Context, text string, sentences []string) (DebtType, error)
	ExtractAmount(ctx context.Context, text string) (Amount, error)
	// ExtractRightsholder returns the beneficiary of a right or charge
	ExtractRightsholder(ctx context.Context, text string, sentences []string) (string, error)
	// ExtractRangvermerk returns the priority note, or ErrNoMatch when there is none
	ExtractRangvermerk(ctx context.Context, text string, sentences []string) (string, error)
	// ParseColumn1 parses the reference column of a right
	ParseColumn1(ctx context.Context, reference, text string) ([]model.Spalte1Eintrag, error)
}
