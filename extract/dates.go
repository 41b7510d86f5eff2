package extract

import (
	"regexp"
	"strings"
)

const datePattern = `(\d{1,2}\.\s?\d{1,2}\.\s?\d{4})`

var (
	// eingetragenPatterns are tried on each sentence in order; the plain
	// form wins over the one with an intervening clause.
	eingetragenPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\beingetragen\s+am\s+` + datePattern),
		regexp.MustCompile(`(?i)\beingetragen\b.*?\bam\s+` + datePattern),
	}
	uebertragenPattern = regexp.MustCompile(`(?i)\bhierher\s+übertragen\s+am\s+` + datePattern)
)

// RegistrationDate returns the registration date stated in the sentences of
// an entry as DD.MM.YYYY. "eingetragen am ..." (directly or after an
// intervening clause) is looked for first, in sentence order; only if no
// sentence has it, "hierher übertragen am ..." is used.
func RegistrationDate(sentences []string) (string, bool) {
	for _, s := range sentences {
		for _, re := range eingetragenPatterns {
			if m := re.FindStringSubmatch(s); m != nil {
				return normalizeDate(m[1]), true
			}
		}
	}
	for _, s := range sentences {
		if m := uebertragenPattern.FindStringSubmatch(s); m != nil {
			return normalizeDate(m[1]), true
		}
	}
	return "", false
}

func normalizeDate(d string) string {
	return strings.Join(strings.Fields(d), "")
}
