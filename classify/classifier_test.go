package classify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/grundbuch/model"
)

func TestOrientationOf(t *testing.T) {
	assert.Equal(t, Landscape, OrientationOf(3508, 2480))
	assert.Equal(t, Portrait, OrientationOf(2480, 3508))
	assert.Equal(t, Portrait, OrientationOf(1000, 1000), "square pages are not landscape")
}

func TestClassifier_SingleGroup(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		orientation Orientation
		want        PageType
	}{
		{"bv landscape", "Amtsgericht Musterstadt Grundbuch von Musterdorf Bestandsverzeichnis", Landscape, BvHorz},
		{"bv portrait", "Bestandsverzeichnis\nLfd. Nr. der Grundstücke", Portrait, BvVert},
		{"bv ocr dropped letter", "BESTANDSVERZEICHNI5", Portrait, BvVert},
		{"bv typ2", "Bestandsverzeichnis Wirtschaftsart und Lage", Portrait, BvVertTyp2},
		{"bv amendments landscape", "Bestandsverzeichnis Bestand und Zuschreibungen Abschreibungen", Landscape, BvHorzZuUndAbschreibungen},
		{"bv amendments portrait", "Bestandsverzeichnis Abschreibungen", Portrait, BvVertZuUndAbschreibungen},
		{"abt1 landscape", "Erste Abteilung Eigentümer", Landscape, Abt1Horz},
		{"abt1 roman", "Abteilung I\nLfd. Nr. der Eintragungen", Portrait, Abt1Vert},
		{"abt2 roman", "Abteilung II Lasten", Landscape, Abt2Horz},
		{"abt2 misread Il", "Abteilung Il", Portrait, Abt2Vert},
		{"abt2 misread pipes", "Abteilung || Veränderungen", Portrait, Abt2VertVeraenderungen},
		{"abt2 landscape amendments", "Zweite Abteilung Veranderungen", Landscape, Abt2HorzVeraenderungen},
		{"abt3 roman", "Abteilung III", Landscape, Abt3Horz},
		{"abt3 misread", "Abteilung Ill Veränderungen Löschungen", Landscape, Abt3HorzVeraenderungenLoeschungen},
		{"abt3 portrait amendments", "Dritte Abteilung Veränderungen", Portrait, Abt3VertVeraenderungen},
		{"abt3 portrait deletions", "Dritte Abteilung Löschungen", Portrait, Abt3VertLoeschungen},
		{"abt3 portrait both", "Dritte Abteilung Veränderungen Löschungen", Portrait, Abt3VertVeraenderungenLoeschungen},
		{"abt3 portrait", "Dritte Abteilung", Portrait, Abt3Vert},
	}

	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(tt.text, tt.orientation)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.orientation, got.Orientation())
		})
	}
}

func TestClassifier_Priority(t *testing.T) {
	c := NewClassifier()

	// Abteilung + Hypothek beats every other group
	got, err := c.Classify("Abteilung I Eigentümer Hypothek Bestandsverzeichnis", Landscape)
	require.NoError(t, err)
	assert.Equal(t, SectionAbt3, got.Section())

	got, err = c.Classify("Bestandsverzeichnis siehe Abteilung II", Portrait)
	require.NoError(t, err)
	assert.Equal(t, SectionAbt2, got.Section())

	got, err = c.Classify("Bestandsverzeichnis Erste Abteilung", Portrait)
	require.NoError(t, err)
	assert.Equal(t, SectionAbt1, got.Section())
}

func TestClassifier_Unknown(t *testing.T) {
	c := NewClassifier()
	_, err := c.Classify("Inhaltsverzeichnis", Portrait)
	assert.ErrorIs(t, err, ErrUnknownPageType)

	_, err = c.Classify("", Landscape)
	assert.ErrorIs(t, err, ErrUnknownPageType)
}

func TestClassifier_NormalizeDecomposedUmlauts(t *testing.T) {
	c := NewClassifier()
	// "Löschungen" with a combining diaeresis, as some OCR engines emit it
	got, err := c.Classify("Dritte Abteilung Lo\u0308schungen", Portrait)
	require.NoError(t, err)
	assert.Equal(t, Abt3VertLoeschungen, got)
}

func TestClassifyPages(t *testing.T) {
	c := NewClassifier()
	res := c.ClassifyPages([]PageText{
		{Index: 0, Text: "Bestandsverzeichnis", Width: 2000, Height: 1000},
		{Index: 1, Text: "nothing useful", Width: 2000, Height: 1000},
		{Index: 2, Text: "Abteilung II", Width: 1000, Height: 2000},
		{Index: 3, Text: "nothing useful", Width: 1000, Height: 2000},
	}, map[int]PageType{3: Abt1Vert})

	assert.Equal(t, []int{0, 2, 3}, res.Pages())
	assert.Equal(t, BvHorz, res.Types[0])
	assert.Equal(t, Abt2Vert, res.Types[2])
	assert.Equal(t, Abt1Vert, res.Types[3])

	require.Contains(t, res.Errors, 1)
	var pageErr *model.PageError
	require.True(t, errors.As(res.Errors[1], &pageErr))
	assert.Equal(t, 1, pageErr.Page)
	assert.ErrorIs(t, res.Errors[1], ErrUnknownPageType)
}

func TestParsePageType(t *testing.T) {
	for _, pt := range AllPageTypes {
		got, err := ParsePageType(string(pt))
		require.NoError(t, err)
		assert.Equal(t, pt, got)
		assert.NotEqual(t, SectionUnknown, pt.Section())
	}
	_, err := ParsePageType("abt4-horz")
	assert.Error(t, err)
}
