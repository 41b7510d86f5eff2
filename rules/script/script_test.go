package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/grundbuch/model"
	"github.com/tsawler/grundbuch/rules"
)

const source = `
function clean(text) {
	return text.replace(/\s+/g, " ").trim();
}

function classifyRight(text, sentences) {
	if (sentences.join(" ").indexOf("Solar") >= 0) {
		return "solaranlage";
	}
	return null;
}

function extractAmount(text) {
	var m = /(\d+) Taler/.exec(text);
	if (!m) {
		return null;
	}
	return {cents: parseInt(m[1], 10) * 100, currency: "TLR"};
}

function parseColumn1(reference, text) {
	return [
		{bv_nr: parseInt(reference, 10), teilbelastet: true},
		{bv_nr: 0, filter: [{flur: 2, flurstueck: "7/1"}]}
	];
}
`

func TestRule_ScriptFunctions(t *testing.T) {
	r, err := New(source)
	require.NoError(t, err)
	ctx := context.Background()

	assert.True(t, r.Defines("clean"))
	assert.False(t, r.Defines("classifyDebt"))

	cleaned, err := r.Clean(ctx, "  Wege-\n  recht ")
	require.NoError(t, err)
	assert.Equal(t, "Wege- recht", cleaned)

	rt, err := r.ClassifyRight(ctx, "", []string{"Recht zum Betrieb einer Solaranlage."})
	require.NoError(t, err)
	assert.Equal(t, rules.RightType("solaranlage"), rt)

	_, err = r.ClassifyRight(ctx, "", []string{"Wegerecht."})
	assert.ErrorIs(t, err, rules.ErrNoMatch)

	amount, err := r.ExtractAmount(ctx, "Hypothek zu 300 Taler")
	require.NoError(t, err)
	assert.Equal(t, rules.Amount{Cents: 30000, Currency: "TLR"}, amount)

	refs, err := r.ParseColumn1(ctx, "3", "")
	require.NoError(t, err)
	assert.Equal(t, []model.Spalte1Eintrag{
		{BvNr: 3, Teilbelastet: true},
		{Filter: []model.FlurFlurstueck{{Flur: 2, Flurstueck: "7/1"}}},
	}, refs)
}

func TestRule_Fallback(t *testing.T) {
	r, err := New(source)
	require.NoError(t, err)
	ctx := context.Background()

	debt, err := r.ClassifyDebt(ctx, "Grundschuld zu 5.000 EUR", nil)
	require.NoError(t, err)
	assert.Equal(t, rules.DebtGrundschuld, debt)

	holder, err := r.ExtractRightsholder(ctx, "Vorkaufsrecht für Erna Muster", nil)
	require.NoError(t, err)
	assert.Equal(t, "Erna Muster", holder)
}

func TestRule_Interrupt(t *testing.T) {
	r, err := New(`function clean(text) {
		if (text === "loop") {
			while (true) {}
		}
		return text + "!";
	}`)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = r.Clean(ctx, "loop")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The runtime is usable again after an interrupt
	got, err := r.Clean(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, "ok!", got)
}

func TestRule_ScriptError(t *testing.T) {
	r, err := New(`function extractRightsholder() { throw new Error("boom"); }`)
	require.NoError(t, err)
	_, err = r.ExtractRightsholder(context.Background(), "x", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	_, err = New(`function (`)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.js")
	require.NoError(t, os.WriteFile(path, []byte(`function classifyDebt() { return "grundschuld"; }`), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	got, err := r.ClassifyDebt(context.Background(), "Hypothek", nil)
	require.NoError(t, err)
	assert.Equal(t, rules.DebtGrundschuld, got)

	_, err = Load(filepath.Join(t.TempDir(), "missing.js"))
	assert.Error(t, err)
}
