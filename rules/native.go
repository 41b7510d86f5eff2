package rules

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/grundbuch/model"
)

// RightKeywords maps a right variant to the words that identify it
type RightKeywords struct {
	Type  RightType
	Words []string
}

// DebtKeywords maps a charge variant to the words that identify it
type DebtKeywords struct {
	Type  DebtType
	Words []string
}

// NativeConfig holds the keyword tables of the regexp rule.
// Tables are checked in order; the first variant with a matching word wins.
type NativeConfig struct {
	Rights []RightKeywords
	Debts  []DebtKeywords
	// HolderStops end the beneficiary phrase
	HolderStops []string
}

// DefaultNativeConfig returns keyword tables for Abteilung 2 and 3 entries
func DefaultNativeConfig() NativeConfig {
	return NativeConfig{
		Rights: []RightKeywords{
			{RightVormerkung, []string{"auflassungsvormerkung", "vormerkung"}},
			{RightVorkaufsrecht, []string{"vorkaufsrecht"}},
			{RightNiessbrauch, []string{"nießbrauch", "niessbrauch", "niesbrauch"}},
			{RightWohnungsrecht, []string{"wohnungsrecht", "wohnrecht"}},
			{RightErbbaurecht, []string{"erbbaurecht"}},
			{RightLeitungsrecht, []string{"leitungsrecht", "leitung", "kanalrecht"}},
			{RightWegerecht, []string{"wegerecht", "überwegungsrecht", "fahrrecht", "gehrecht", "geh- und fahr"}},
			{RightReallast, []string{"reallast", "altenteil", "leibgeding"}},
			{RightVerfuegungsbes, []string{
				"zwangsversteigerung", "zwangsverwaltung", "insolvenz", "sanierung",
				"umlegung", "flurbereinigung", "nacherb", "testamentsvollstreck",
			}},
			{RightVermerk, []string{"vermerk"}},
			{RightDienstbarkeit, []string{"dienstbarkeit"}},
		},
		Debts: []DebtKeywords{
			{DebtSicherungshypothek, []string{"sicherungshypothek", "höchstbetragshypothek", "zwangshypothek"}},
			{DebtRentenschuld, []string{"rentenschuld"}},
			{DebtGrundschuld, []string{"grundschuld"}},
			{DebtHypothek, []string{"hypothek"}},
		},
		HolderStops: []string{
			" gemäß", " unter Bezugnahme", " eingetragen", " mit Rang", " im Rang",
			" vorbehaltlich", " unter Vorbehalt", ";",
		},
	}
}

// Native implements TextRule with keyword tables and regular expressions
type Native struct {
	config NativeConfig
}

// NewNative creates the regexp rule with the default tables
func NewNative() *Native {
	return NewNativeWithConfig(DefaultNativeConfig())
}

// NewNativeWithConfig creates the regexp rule with custom tables
func NewNativeWithConfig(config NativeConfig) *Native {
	return &Native{config: config}
}

var (
	hyphenated = regexp.MustCompile(`(\p{Ll})-\s+(\p{Ll}+)`)
	ocrLfd     = regexp.MustCompile(`\b[Il1]fd\.`)
	quotes     = strings.NewReplacer("„", `"`, "“", `"`, "”", `"`, "‚", "'", "‘", "'", "’", "'")
)

// Clean implements TextRule. It joins words hyphenated across line breaks,
// repairs common misreads and collapses whitespace.
func (n *Native) Clean(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s := norm.NFC.String(text)
	s = quotes.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = hyphenated.ReplaceAllStringFunc(s, func(m string) string {
		sub := hyphenated.FindStringSubmatch(m)
		switch sub[2] {
		case "und", "oder", "bzw", "sowie":
			return m
		}
		return sub[1] + sub[2]
	})
	s = ocrLfd.ReplaceAllString(s, "lfd.")
	return s, nil
}

// ClassifyRight implements TextRule
func (n *Native) ClassifyRight(ctx context.Context, text string, sentences []string) (RightType, error) {
	if err := ctx.Err(); err != nil {
		return RightUnknown, err
	}
	lower := strings.ToLower(text)
	for _, group := range n.config.Rights {
		for _, w := range group.Words {
			if strings.Contains(lower, w) {
				return group.Type, nil
			}
		}
	}
	return RightUnknown, ErrNoMatch
}

// ClassifyDebt implements TextRule
func (n *Native) ClassifyDebt(ctx context.Context, text string, sentences []string) (DebtType, error) {
	if err := ctx.Err(); err != nil {
		return DebtUnknown, err
	}
	lower := strings.ToLower(text)
	for _, group := range n.config.Debts {
		for _, w := range group.Words {
			if strings.Contains(lower, w) {
				return group.Type, nil
			}
		}
	}
	return DebtUnknown, ErrNoMatch
}

const (
	amountNumber   = `(\d{1,3}(?:\.\d{3})+|\d+)(?:,(\d{1,2}|-{1,2}))?`
	amountCurrency = `(€|EUR|Euro|DM|Deutsche\s+Mark|Reichsmark|RM|Goldmark|GM)`
)

var (
	amountAfter  = regexp.MustCompile(amountNumber + `\s*` + amountCurrency + `(?:\b|$|\s)`)
	amountBefore = regexp.MustCompile(amountCurrency + `\s*` + amountNumber)
)

// ExtractAmount implements TextRule. Both "10.000,00 EUR" and "DM 5.000,-"
// are understood; the leftmost amount wins.
func (n *Native) ExtractAmount(ctx context.Context, text string) (Amount, error) {
	if err := ctx.Err(); err != nil {
		return Amount{}, err
	}
	after := amountAfter.FindStringSubmatchIndex(text)
	before := amountBefore.FindStringSubmatchIndex(text)

	var whole, frac, currency string
	switch {
	case after != nil && (before == nil || after[0] <= before[0]):
		whole, frac, currency = group(text, after, 1), group(text, after, 2), group(text, after, 3)
	case before != nil:
		currency, whole, frac = group(text, before, 1), group(text, before, 2), group(text, before, 3)
	default:
		return Amount{}, ErrNoMatch
	}

	units, err := strconv.ParseInt(strings.ReplaceAll(whole, ".", ""), 10, 64)
	if err != nil {
		return Amount{}, err
	}
	cents := units * 100
	if frac != "" && !strings.HasPrefix(frac, "-") {
		f, _ := strconv.ParseInt(frac, 10, 64)
		if len(frac) == 1 {
			f *= 10
		}
		cents += f
	}
	return Amount{Cents: cents, Currency: normalizeCurrency(currency)}, nil
}

func group(s string, idx []int, i int) string {
	if idx[2*i] < 0 {
		return ""
	}
	return s[idx[2*i]:idx[2*i+1]]
}

func normalizeCurrency(c string) string {
	switch strings.Join(strings.Fields(c), " ") {
	case "€", "EUR", "Euro":
		return "EUR"
	case "DM", "Deutsche Mark":
		return "DM"
	case "RM", "Reichsmark":
		return "RM"
	case "GM", "Goldmark":
		return "GM"
	}
	return c
}

var holderIntro = regexp.MustCompile(`(?i)\b(?:zugunsten|für)\s+(?:(?:den|die|das|dem|der)\s+)?`)

// ExtractRightsholder implements TextRule. The phrase after the first
// "zugunsten" or "für" is returned, up to a configured stop phrase.
func (n *Native) ExtractRightsholder(ctx context.Context, text string, sentences []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(sentences) == 0 {
		sentences = []string{text}
	}
	for _, s := range sentences {
		loc := holderIntro.FindStringIndex(s)
		if loc == nil {
			continue
		}
		holder := s[loc[1]:]
		for _, stop := range n.config.HolderStops {
			if i := strings.Index(holder, stop); i >= 0 {
				holder = holder[:i]
			}
		}
		holder = strings.TrimRightFunc(holder, func(r rune) bool {
			return unicode.IsSpace(r) || r == ',' || r == '.'
		})
		if holder != "" {
			return holder, nil
		}
	}
	return "", ErrNoMatch
}

var rangPattern = regexp.MustCompile(`(?i)\b(?:mit|im)\s+(?:dem\s+)?rang\b|\brang\s+(?:vor|nach)\b|\bgleichrang|\brangrücktritt|\bvorrang`)

// ExtractRangvermerk implements TextRule. It returns the first sentence
// stating a priority.
func (n *Native) ExtractRangvermerk(ctx context.Context, text string, sentences []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(sentences) == 0 {
		sentences = []string{text}
	}
	for _, s := range sentences {
		if rangPattern.MatchString(s) {
			return strings.TrimSpace(s), nil
		}
	}
	return "", ErrNoMatch
}

// ParseColumn1 implements TextRule, see ParseReference
func (n *Native) ParseColumn1(ctx context.Context, reference, text string) ([]model.Spalte1Eintrag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	refs := ParseReference(reference)
	if len(refs) == 0 {
		return nil, ErrNoMatch
	}
	return refs, nil
}
