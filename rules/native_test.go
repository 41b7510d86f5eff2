package rules

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/grundbuch/model"
)

func TestNative_Clean(t *testing.T) {
	n := NewNative()
	got, err := n.Clean(context.Background(), "Grund-  schuld   zu „10.000 DM“\n für Ifd. Nr. 1; Geh- und Fahrrecht")
	require.NoError(t, err)
	assert.Equal(t, `Grundschuld zu "10.000 DM" für lfd. Nr. 1; Geh- und Fahrrecht`, got)
}

func TestNative_ClassifyRight(t *testing.T) {
	n := NewNative()
	ctx := context.Background()
	tests := []struct {
		text string
		want RightType
	}{
		{"Geh- und Fahrrecht für den jeweiligen Eigentümer von Flurstück 12", RightWegerecht},
		{"Beschränkte persönliche Dienstbarkeit (Leitungsrecht) für die Stadtwerke", RightLeitungsrecht},
		{"Vorkaufsrecht für alle Verkaufsfälle", RightVorkaufsrecht},
		{"Auflassungsvormerkung für Max Muster", RightVormerkung},
		{"Nießbrauch für Erna Muster", RightNiessbrauch},
		{"Die Zwangsversteigerung ist angeordnet", RightVerfuegungsbes},
		{"Grunddienstbarkeit", RightDienstbarkeit},
	}
	for _, tt := range tests {
		got, err := n.ClassifyRight(ctx, tt.text, nil)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}

	_, err := n.ClassifyRight(ctx, "unleserlich", nil)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestNative_ClassifyDebt(t *testing.T) {
	n := NewNative()
	ctx := context.Background()
	tests := []struct {
		text string
		want DebtType
	}{
		{"Grundschuld ohne Brief zu 10.000 EUR", DebtGrundschuld},
		{"Sicherungshypothek zu 5.000 DM", DebtSicherungshypothek},
		{"Hypothek zu 3.000 Goldmark", DebtHypothek},
		{"Rentenschuld", DebtRentenschuld},
	}
	for _, tt := range tests {
		got, err := n.ClassifyDebt(ctx, tt.text, nil)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestNative_ExtractAmount(t *testing.T) {
	n := NewNative()
	ctx := context.Background()
	tests := []struct {
		text string
		want Amount
	}{
		{"Grundschuld zu 10.000,00 EUR nebst Zinsen", Amount{Cents: 1000000, Currency: "EUR"}},
		{"Hypothek zu DM 5.000,-", Amount{Cents: 500000, Currency: "DM"}},
		{"Grundschuld zu 1.250,5 €", Amount{Cents: 125050, Currency: "EUR"}},
		{"3.000 Goldmark für lfd. Nr. 2", Amount{Cents: 300000, Currency: "GM"}},
		{"250 Deutsche Mark", Amount{Cents: 25000, Currency: "DM"}},
	}
	for _, tt := range tests {
		got, err := n.ExtractAmount(ctx, tt.text)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}

	_, err := n.ExtractAmount(ctx, "Wegerecht")
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Equal(t, "10000,00 EUR", Amount{Cents: 1000000, Currency: "EUR"}.String())
}

func TestNative_ExtractRightsholder(t *testing.T) {
	n := NewNative()
	ctx := context.Background()

	got, err := n.ExtractRightsholder(ctx, "", []string{
		"Grundschuld zu 10.000 EUR.",
		"Für die Sparkasse Musterstadt, gemäß Bewilligung vom 1.2.1990 eingetragen am 3.2.1990.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sparkasse Musterstadt", got)

	got, err = n.ExtractRightsholder(ctx, "Wegerecht zugunsten des jeweiligen Eigentümers von Flurstück 12 mit Rang vor Abt. III", nil)
	require.NoError(t, err)
	assert.Equal(t, "des jeweiligen Eigentümers von Flurstück 12", got)

	_, err = n.ExtractRightsholder(ctx, "Sanierungsvermerk", nil)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestNative_ExtractRangvermerk(t *testing.T) {
	n := NewNative()
	ctx := context.Background()

	got, err := n.ExtractRangvermerk(ctx, "", []string{"Wegerecht.", "Im Rang vor Abt. III Nr. 1.", "Eingetragen am 1.1.1990."})
	require.NoError(t, err)
	assert.Equal(t, "Im Rang vor Abt. III Nr. 1.", got)

	_, err = n.ExtractRangvermerk(ctx, "Wegerecht", nil)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestParseReference(t *testing.T) {
	tests := []struct {
		ref  string
		want []model.Spalte1Eintrag
	}{
		{"1, 2", []model.Spalte1Eintrag{{BvNr: 1}, {BvNr: 2}}},
		{"1-3", []model.Spalte1Eintrag{{BvNr: 1}, {BvNr: 2}, {BvNr: 3}}},
		{"1 bis 3", []model.Spalte1Eintrag{{BvNr: 1}, {BvNr: 2}, {BvNr: 3}}},
		{"lfd. Nr. 4 teilweise", []model.Spalte1Eintrag{{BvNr: 4, Teilbelastet: true}}},
		{"1 (Flur 2, Flurstück 10/1)", []model.Spalte1Eintrag{
			{BvNr: 1, Filter: []model.FlurFlurstueck{{Flur: 2, Flurstueck: "10/1"}}},
		}},
		{"Flur 3 Flurstück 10 und 11", []model.Spalte1Eintrag{
			{Filter: []model.FlurFlurstueck{{Flur: 3, Flurstueck: "10"}, {Flur: 3, Flurstueck: "11"}}},
		}},
		{"1, 2 und 3 (Flurstück 7)", []model.Spalte1Eintrag{
			{BvNr: 1},
			{BvNr: 2},
			{BvNr: 3, Filter: []model.FlurFlurstueck{{Flurstueck: "7"}}},
		}},
		{"5 (tlw., Gemarkung Nachbarort Flur 1 Flst. 3)", []model.Spalte1Eintrag{
			{BvNr: 5, Teilbelastet: true, Filter: []model.FlurFlurstueck{{Gemarkung: "Nachbarort", Flur: 1, Flurstueck: "3"}}},
		}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseReference(tt.ref)); diff != "" {
				t.Errorf("ParseReference(%q) mismatch (-want +got):\n%s", tt.ref, diff)
			}
		})
	}
}

func TestNative_ParseColumn1(t *testing.T) {
	n := NewNative()
	refs, err := n.ParseColumn1(context.Background(), "2", "")
	require.NoError(t, err)
	assert.Equal(t, []model.Spalte1Eintrag{{BvNr: 2}}, refs)

	_, err = n.ParseColumn1(context.Background(), "—", "")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestNative_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewNative().Clean(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
