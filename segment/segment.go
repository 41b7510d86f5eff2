package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Config holds the merge rules of a Segmenter
type Config struct {
	// Abbreviations are written without their trailing period
	Abbreviations []string
	Months        []string
}

// DefaultConfig returns abbreviations and month names common in register entries
func DefaultConfig() Config {
	return Config{
		Abbreviations: []string{
			"Abt", "Nr", "lfd", "Ifd", "Flst", "Flurst", "Gem", "Gemarkung", "Bl", "Bd",
			"gem", "vgl", "bzw", "z.B", "u.a", "d.h", "i.V", "v", "vom", "geb",
			"Dr", "Prof", "Dipl", "Ing", "Str", "St", "Co", "KG", "GmbH", "e.V",
			"Urk.R", "UR", "Rdnr", "Abs", "Art", "Ziff", "ha", "qm", "Grdst",
			"Not", "BGB", "GBO", "Jan", "Feb", "Febr", "Aug", "Sept", "Okt", "Nov", "Dez",
		},
		Months: []string{
			"Januar", "Jänner", "Februar", "März", "April", "Mai", "Juni", "Juli",
			"August", "September", "Oktober", "November", "Dezember",
		},
	}
}

// Segmenter splits text into sentences
type Segmenter struct {
	abbreviations map[string]struct{}
	months        map[string]struct{}
}

// NewSegmenter creates a segmenter with the default rules
func NewSegmenter() *Segmenter {
	return NewSegmenterWithConfig(DefaultConfig())
}

// NewSegmenterWithConfig creates a segmenter with custom rules.
// Both lists are matched case-insensitively.
func NewSegmenterWithConfig(config Config) *Segmenter {
	s := &Segmenter{
		abbreviations: make(map[string]struct{}, len(config.Abbreviations)),
		months:        make(map[string]struct{}, len(config.Months)),
	}
	for _, a := range config.Abbreviations {
		s.abbreviations[strings.ToLower(strings.TrimSuffix(a, "."))] = struct{}{}
	}
	for _, m := range config.Months {
		s.months[strings.ToLower(m)] = struct{}{}
	}
	return s
}

// Split returns all sentences of text
func (s *Segmenter) Split(text string) []string {
	var out []string
	sc := s.Scanner(text)
	for sc.Next() {
		out = append(out, sc.Text())
	}
	return out
}

// Scanner returns a scanner over the sentences of text
func (s *Segmenter) Scanner(text string) *Scanner {
	return &Scanner{seg: s, segments: candidates(text)}
}

// Scanner yields sentences one at a time. Like bufio.Scanner it cannot be
// rewound; create a new one to scan again.
type Scanner struct {
	seg      *Segmenter
	segments []string
	pos      int
	text     string
}

// Next advances to the next sentence and reports whether there is one
func (sc *Scanner) Next() bool {
	if sc.pos >= len(sc.segments) {
		sc.text = ""
		return false
	}
	sentence := sc.segments[sc.pos]
	sc.pos++
	for sc.pos < len(sc.segments) && sc.seg.joins(sentence, sc.segments[sc.pos]) {
		sentence += " " + sc.segments[sc.pos]
		sc.pos++
	}
	sc.text = sentence
	return true
}

// Text returns the current sentence
func (sc *Scanner) Text() string { return sc.text }

// joins reports whether the boundary between prev and next must be undone
func (s *Segmenter) joins(prev, next string) bool {
	body := strings.TrimSuffix(prev, ".")
	last := body
	if i := strings.LastIndexFunc(body, unicode.IsSpace); i >= 0 {
		last = body[i+1:]
	}
	last = strings.TrimLeft(last, "(")
	if _, ok := s.abbreviations[strings.ToLower(last)]; ok {
		return true
	}

	r, _ := utf8.DecodeLastRuneInString(body)
	if !unicode.IsDigit(r) {
		return false
	}
	first, _ := utf8.DecodeRuneInString(next)
	if !unicode.IsUpper(first) {
		return true
	}
	word := next
	if i := strings.IndexFunc(next, func(r rune) bool { return !unicode.IsLetter(r) }); i >= 0 {
		word = next[:i]
	}
	_, month := s.months[strings.ToLower(word)]
	return month
}

// candidates splits after every period that is followed by whitespace and
// an upper-case letter. Each segment keeps its period.
func candidates(text string) []string {
	var out []string
	runes := []rune(strings.TrimSpace(text))
	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) || !unicode.IsUpper(runes[j]) {
			continue
		}
		out = appendSegment(out, runes[start:i+1])
		start = j
		i = j - 1
	}
	return appendSegment(out, runes[start:])
}

func appendSegment(out []string, runes []rune) []string {
	s := strings.Join(strings.Fields(string(runes)), " ")
	if s == "" {
		return out
	}
	return append(out, s)
}
