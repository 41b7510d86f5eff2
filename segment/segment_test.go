package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "month after day",
			text: "Das Recht ist am 1. Januar 2000 eingetragen. Weiteres.",
			want: []string{"Das Recht ist am 1. Januar 2000 eingetragen.", "Weiteres."},
		},
		{
			name: "abbreviation",
			text: "Mit Rang vor Abt. III Nr. 2. Eingetragen am 3.4.1990.",
			want: []string{"Mit Rang vor Abt. III Nr. 2.", "Eingetragen am 3.4.1990."},
		},
		{
			name: "number before a plain sentence",
			text: "Gelöscht lfd. Nr. 4. Die Löschung ist vermerkt.",
			want: []string{"Gelöscht lfd. Nr. 4.", "Die Löschung ist vermerkt."},
		},
		{
			name: "lower case after period",
			text: "Grundschuld zu 10.000 DM. nebst 15 % Zinsen",
			want: []string{"Grundschuld zu 10.000 DM. nebst 15 % Zinsen"},
		},
		{
			name: "whitespace is collapsed",
			text: "  Erstes   Recht.\n Zweites  Recht  ",
			want: []string{"Erstes Recht.", "Zweites Recht"},
		},
		{
			name: "empty",
			text: "   ",
		},
	}
	s := NewSegmenter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Split(tt.text))
		})
	}
}

func TestScanner(t *testing.T) {
	sc := NewSegmenter().Scanner("Eins. Zwei. Drei.")
	var got []string
	for sc.Next() {
		got = append(got, sc.Text())
	}
	assert.Equal(t, []string{"Eins.", "Zwei.", "Drei."}, got)

	// Exhausted scanners stay exhausted
	assert.False(t, sc.Next())
	assert.Empty(t, sc.Text())
}

func TestCustomConfig(t *testing.T) {
	s := NewSegmenterWithConfig(Config{Abbreviations: []string{"Flst."}, Months: []string{"Mai"}})
	assert.Equal(t,
		[]string{"Belastet Flst. Nr 10 ab 3. Mai 2001 zugunsten X."},
		s.Split("Belastet Flst. Nr 10 ab 3. Mai 2001 zugunsten X."))
	assert.Equal(t,
		[]string{"Siehe Abt.", "Zwei."},
		s.Split("Siehe Abt. Zwei."))
}
