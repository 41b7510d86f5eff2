package classify

import (
	"errors"
	"sort"
	"strings"

	"github.com/tsawler/grundbuch/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// ErrUnknownPageType is returned when no keyword group matches a page
var ErrUnknownPageType = errors.New("unknown page type")

// KeywordGroup maps a section to its markers. Each marker is a set of
// substrings that must all occur in the normalised page text.
type KeywordGroup struct {
	Section Section
	Markers [][]string
}

// ClassifierConfig holds the keyword tables used for classification
type ClassifierConfig struct {
	// Groups are checked in order; the first group with a matching marker wins.
	Groups []KeywordGroup

	// Secondary keywords select the sub-variant once the section is known
	Veraenderungen []string
	Loeschungen    []string
	Abschreibungen []string
	// BvTyp2 marks the alternative portrait layout of the Bestandsverzeichnis
	BvTyp2 []string
}

// DefaultClassifierConfig returns the keyword table for the scanned register family.
// Roman numerals are listed with their common OCR misreads ("Il", "||", "ll").
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Groups: []KeywordGroup{
			{
				Section: SectionAbt3,
				Markers: [][]string{
					{"dritte abteilung"},
					{"abteilung iii"}, {"abteilung ill"}, {"abteilung iil"}, {"abteilung lil"},
					{"abteilung lll"}, {"abteilung |||"}, {"abteilung ||l"}, {"abteilung i||"},
					{"abteilung", "hypothek"},
					{"abteilung", "grundschuld"},
					{"abteilung", "rentenschuld"},
				},
			},
			{
				Section: SectionAbt2,
				Markers: [][]string{
					{"zweite abteilung"},
					{"abteilung ii"}, {"abteilung il"}, {"abteilung li"}, {"abteilung ll"},
					{"abteilung ||"}, {"abteilung i|"}, {"abteilung |i"}, {"abteilung 11"},
					{"abteilung", "lasten und beschränkungen"},
					{"abteilung", "lasten und beschrankungen"},
				},
			},
			{
				Section: SectionAbt1,
				Markers: [][]string{
					{"erste abteilung"},
					{"abteilung i "}, {"abteilung | "}, {"abteilung l "}, {"abteilung 1 "},
					{"abteilung", "eigentümer"},
					{"abteilung", "eigentumer"},
				},
			},
			{
				Section: SectionBestandsverzeichnis,
				Markers: [][]string{
					{"bestandsverzeichnis"},
					{"bestandsverzeichni"},
					{"bestandsverz"},
					{"verzeichnis der grundstücke"},
					{"verzeichnis der grundstucke"},
				},
			},
		},
		Veraenderungen: []string{"veränderung", "veranderung", "verãnderung"},
		Loeschungen:    []string{"löschung", "loschung", "lôschung"},
		Abschreibungen: []string{"abschreibung", "zuschreibung"},
		BvTyp2:         []string{"wirtschaftsart und lage"},
	}
}

// Classifier assigns page layout variants from noisy OCR text
type Classifier struct {
	config ClassifierConfig
}

// NewClassifier creates a classifier with the default keyword table
func NewClassifier() *Classifier {
	return NewClassifierWithConfig(DefaultClassifierConfig())
}

// NewClassifierWithConfig creates a classifier with a custom keyword table
func NewClassifierWithConfig(config ClassifierConfig) *Classifier {
	return &Classifier{config: config}
}

// Normalize prepares OCR text for keyword matching: NFC composition,
// German lower-casing and collapsed whitespace, padded with one space on
// each side so markers may anchor on word ends.
func (c *Classifier) Normalize(text string) string {
	// Casers are stateful, so each call gets its own.
	lower := cases.Lower(language.German)
	s := lower.String(norm.NFC.String(text))
	return " " + strings.Join(strings.Fields(s), " ") + " "
}

// Section returns the first section whose markers match the text
func (c *Classifier) Section(text string) (Section, error) {
	normalized := c.Normalize(text)
	for _, group := range c.config.Groups {
		for _, marker := range group.Markers {
			if containsAll(normalized, marker) {
				return group.Section, nil
			}
		}
	}
	return SectionUnknown, ErrUnknownPageType
}

// Classify returns the layout variant of a page from its full-page OCR text
// and the orientation of its scan.
func (c *Classifier) Classify(text string, orientation Orientation) (PageType, error) {
	section, err := c.Section(text)
	if err != nil {
		return "", err
	}

	normalized := c.Normalize(text)
	landscape := orientation == Landscape
	veraenderungen := containsAny(normalized, c.config.Veraenderungen)
	loeschungen := containsAny(normalized, c.config.Loeschungen)

	switch section {
	case SectionAbt3:
		switch {
		case landscape && (veraenderungen || loeschungen):
			return Abt3HorzVeraenderungenLoeschungen, nil
		case landscape:
			return Abt3Horz, nil
		case veraenderungen && loeschungen:
			return Abt3VertVeraenderungenLoeschungen, nil
		case veraenderungen:
			return Abt3VertVeraenderungen, nil
		case loeschungen:
			return Abt3VertLoeschungen, nil
		default:
			return Abt3Vert, nil
		}
	case SectionAbt2:
		switch {
		case landscape && veraenderungen:
			return Abt2HorzVeraenderungen, nil
		case landscape:
			return Abt2Horz, nil
		case veraenderungen:
			return Abt2VertVeraenderungen, nil
		default:
			return Abt2Vert, nil
		}
	case SectionAbt1:
		if landscape {
			return Abt1Horz, nil
		}
		return Abt1Vert, nil
	case SectionBestandsverzeichnis:
		abschreibungen := containsAny(normalized, c.config.Abschreibungen)
		switch {
		case landscape && abschreibungen:
			return BvHorzZuUndAbschreibungen, nil
		case landscape:
			return BvHorz, nil
		case abschreibungen:
			return BvVertZuUndAbschreibungen, nil
		case containsAny(normalized, c.config.BvTyp2):
			return BvVertTyp2, nil
		default:
			return BvVert, nil
		}
	}
	return "", ErrUnknownPageType
}

// PageText is the full-page OCR text of a scanned page
type PageText struct {
	Index  int
	Text   string
	Width  int // raster width in pixels
	Height int // raster height in pixels
}

// Results holds per-page classifications. A page appears in exactly one of the maps.
type Results struct {
	Types  map[int]PageType
	Errors map[int]error
}

// Pages returns the classified page indices in ascending order
func (r Results) Pages() []int {
	pages := make([]int, 0, len(r.Types))
	for p := range r.Types {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// ClassifyPages classifies a batch of pages. Forced types (operator overrides)
// take precedence over the keyword table. A page that cannot be classified is
// reported in Errors and does not affect the other pages.
func (c *Classifier) ClassifyPages(pages []PageText, forced map[int]PageType) Results {
	res := Results{
		Types:  make(map[int]PageType, len(pages)),
		Errors: make(map[int]error),
	}
	for _, p := range pages {
		if pt, ok := forced[p.Index]; ok {
			res.Types[p.Index] = pt
			continue
		}
		pt, err := c.Classify(p.Text, OrientationOf(p.Width, p.Height))
		if err != nil {
			res.Errors[p.Index] = &model.PageError{Page: p.Index, Err: err}
			continue
		}
		res.Types[p.Index] = pt
	}
	return res
}

func containsAll(text string, substrings []string) bool {
	for _, s := range substrings {
		if !strings.Contains(text, s) {
			return false
		}
	}
	return len(substrings) > 0
}

func containsAny(text string, substrings []string) bool {
	for _, s := range substrings {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
