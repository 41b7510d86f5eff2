package extract

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseNumber reads a numeric field, ignoring every non-digit character.
// "12a3" yields 123. The second result is false when no digit is present
// or the value overflows.
func ParseNumber(s string) (int, bool) {
	digits := keep(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseFlurstueck reads a parcel id. Digits and the fraction slash are kept,
// so "10 / 1" and "1O/1" (with a misread letter) yield "10/1" and "1/1".
func ParseFlurstueck(s string) (string, bool) {
	id := keep(s, func(r rune) bool { return (r >= '0' && r <= '9') || r == '/' })
	id = strings.Trim(id, "/")
	for strings.Contains(id, "//") {
		id = strings.ReplaceAll(id, "//", "/")
	}
	return id, id != ""
}

// ParseArea reads an area figure such as "1.234" or "12 345" in square metres,
// hectares or ares
func ParseArea(s string) (uint64, bool) {
	n, ok := ParseNumber(s)
	if !ok || n < 0 {
		return 0, false
	}
	return uint64(n), true
}

// Numbers returns every integer mentioned in a free-text reference such as
// "1, 2 u. 5" or "3-5". Ranges are expanded when they are short.
func Numbers(s string) []int {
	var out []int
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '-' && r != '–'
	})
	for _, f := range fields {
		f = strings.Trim(strings.ReplaceAll(f, "–", "-"), "-")
		if f == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(f, "-"); ok {
			a, errA := strconv.Atoi(lo)
			b, errB := strconv.Atoi(hi)
			if errA == nil && errB == nil && a <= b && b-a <= 100 {
				for n := a; n <= b; n++ {
					out = append(out, n)
				}
				continue
			}
		}
		for _, part := range strings.Split(f, "-") {
			if n, err := strconv.Atoi(part); err == nil {
				out = append(out, n)
			}
		}
	}
	return out
}

func keep(s string, ok func(rune) bool) string {
	var sb strings.Builder
	for _, r := range s {
		if ok(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
