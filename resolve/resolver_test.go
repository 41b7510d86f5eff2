package resolve

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/grundbuch/model"
	"github.com/tsawler/grundbuch/rules"
)

const district = "Musterdorf"

func parcel(nr, bisherige, flur int, flst string) *model.BvFlurstueck {
	return &model.BvFlurstueck{Nr: nr, BisherigeNr: bisherige, Flur: flur, Flurstueck: flst}
}

func snapshot(parcels ...model.BvEintrag) *Snapshot {
	return NewSnapshot(district, &model.Bestandsverzeichnis{Eintraege: parcels})
}

func ref(nr int, filters ...model.FlurFlurstueck) model.Spalte1Eintrag {
	return model.Spalte1Eintrag{BvNr: nr, Filter: filters}
}

func p(nr, flur int, flst string) Parcel {
	return Parcel{LfdNr: nr, Gemarkung: district, Flur: flur, Flurstueck: flst}
}

func TestResolve_Continuation(t *testing.T) {
	snap := snapshot(
		parcel(1, 0, 3, "10"),
		parcel(2, 1, 3, "10"),
	)
	res, err := NewResolver().Resolve(context.Background(), snap, Request{Refs: []model.Spalte1Eintrag{ref(1)}})
	require.NoError(t, err)

	assert.Equal(t, []Parcel{p(2, 3, "10")}, res.Parcels)
	require.Len(t, res.Problems, 1)
	assert.Equal(t, model.SeverityInfo, res.Problems[0].Severity)
	assert.Equal(t, model.KindContinuation, res.Problems[0].Kind)
	assert.Nil(t, res.Diagnostic)
}

func TestResolve_ContinuationChain(t *testing.T) {
	// 1 -> 3 by predecessor field, 3 -> 5 by the next unnamed number
	snap := snapshot(
		parcel(1, 0, 3, "10"),
		parcel(2, 0, 3, "11"),
		parcel(3, 1, 3, "10"),
		parcel(5, 0, 3, "10"),
		parcel(6, 0, 3, "10/2"),
	)
	res, err := NewResolver().Resolve(context.Background(), snap, Request{Refs: []model.Spalte1Eintrag{ref(1), ref(2)}})
	require.NoError(t, err)
	assert.Equal(t, []Parcel{p(2, 3, "11"), p(5, 3, "10")}, res.Parcels)
	assert.Len(t, res.Problems.OfKind(model.KindContinuation), 2)
}

func TestResolve_Ambiguous(t *testing.T) {
	snap := snapshot(
		parcel(1, 0, 3, "10"),
		parcel(2, 1, 3, "10"),
		parcel(3, 1, 3, "10"),
	)
	res, err := NewResolver().Resolve(context.Background(), snap, Request{
		Refs:         []model.Spalte1Eintrag{ref(1)},
		RawReference: "1",
		Text:         "Wegerecht",
	})
	require.NoError(t, err)

	assert.Empty(t, res.Parcels)
	require.Len(t, res.Problems, 1)
	assert.Equal(t, model.KindConsistency, res.Problems[0].Kind)
	assert.True(t, res.Problems.HasErrors())
	require.NotNil(t, res.Diagnostic)
	assert.Equal(t, "1", res.Diagnostic.RawReference)
}

func TestResolve_AmbiguityDoesNotAffectOthers(t *testing.T) {
	snap := snapshot(
		parcel(1, 0, 3, "10"),
		parcel(1, 0, 3, "12"),
		parcel(4, 0, 3, "10"),
		parcel(4, 0, 3, "10"),
		parcel(4, 0, 4, "10"),
	)
	// The duplicated row at 4 is one candidate, so 3/10 continues.
	res, err := NewResolver().Resolve(context.Background(), snap, Request{Refs: []model.Spalte1Eintrag{ref(1)}})
	require.NoError(t, err)
	assert.Equal(t, []Parcel{p(1, 3, "12"), p(4, 3, "10")}, res.Parcels)
	assert.False(t, res.Problems.HasErrors())
}

func TestResolve_Filters(t *testing.T) {
	snap := snapshot(
		parcel(1, 0, 3, "10"),
		parcel(1, 0, 3, "11"),
		parcel(1, 0, 4, "11"),
		&model.BvFlurstueck{Nr: 1, Gemarkung: "Nachbarort", Flur: 3, Flurstueck: "11"},
	)
	r := NewResolver()
	ctx := context.Background()

	tests := []struct {
		name string
		refs []model.Spalte1Eintrag
		want []Parcel
	}{
		{
			name: "no filter takes all",
			refs: []model.Spalte1Eintrag{ref(1)},
			want: []Parcel{
				p(1, 3, "10"),
				p(1, 3, "11"),
				{LfdNr: 1, Gemarkung: "Nachbarort", Flur: 3, Flurstueck: "11"},
				p(1, 4, "11"),
			},
		},
		{
			name: "flur and flurstück",
			refs: []model.Spalte1Eintrag{ref(1, model.FlurFlurstueck{Flur: 3, Flurstueck: "11"})},
			want: []Parcel{p(1, 3, "11")},
		},
		{
			name: "flur zero is a wildcard",
			refs: []model.Spalte1Eintrag{ref(1, model.FlurFlurstueck{Flurstueck: "11"})},
			want: []Parcel{p(1, 3, "11"), p(1, 4, "11")},
		},
		{
			name: "foreign district",
			refs: []model.Spalte1Eintrag{ref(1, model.FlurFlurstueck{Gemarkung: "Nachbarort", Flur: 3, Flurstueck: "11"})},
			want: []Parcel{{LfdNr: 1, Gemarkung: "Nachbarort", Flur: 3, Flurstueck: "11"}},
		},
		{
			name: "any of several tuples",
			refs: []model.Spalte1Eintrag{ref(1,
				model.FlurFlurstueck{Flur: 3, Flurstueck: "10"},
				model.FlurFlurstueck{Flur: 4, Flurstueck: "11"},
			)},
			want: []Parcel{p(1, 3, "10"), p(1, 4, "11")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Resolve(ctx, snap, Request{Refs: tt.refs})
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, res.Parcels); diff != "" {
				t.Errorf("parcels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_GlobalFilterIntersects(t *testing.T) {
	snap := snapshot(
		parcel(1, 0, 3, "10"),
		parcel(2, 0, 3, "11"),
		parcel(3, 0, 5, "1"),
	)
	r := NewResolver()
	ctx := context.Background()

	res, err := r.Resolve(ctx, snap, Request{Refs: []model.Spalte1Eintrag{
		ref(1),
		ref(2, model.FlurFlurstueck{Flur: 3, Flurstueck: "11"}),
		ref(0, model.FlurFlurstueck{Flur: 3, Flurstueck: "11"}),
	}})
	require.NoError(t, err)
	assert.Equal(t, []Parcel{p(2, 3, "11")}, res.Parcels)

	// Only global references: the whole register is the starting set
	res, err = r.Resolve(ctx, snap, Request{Refs: []model.Spalte1Eintrag{
		ref(0, model.FlurFlurstueck{Flur: 5, Flurstueck: "1"}, model.FlurFlurstueck{Flur: 3, Flurstueck: "10"}),
	}})
	require.NoError(t, err)
	assert.Equal(t, []Parcel{p(1, 3, "10"), p(3, 5, "1")}, res.Parcels)

	// Several global references form a single filter
	res, err = r.Resolve(ctx, snap, Request{Refs: []model.Spalte1Eintrag{
		ref(0, model.FlurFlurstueck{Flur: 5, Flurstueck: "1"}),
		ref(0, model.FlurFlurstueck{Flur: 3, Flurstueck: "10"}),
	}})
	require.NoError(t, err)
	assert.Equal(t, []Parcel{p(1, 3, "10"), p(3, 5, "1")}, res.Parcels)
	assert.Nil(t, res.Diagnostic)

	// Numbered references are narrowed by the combined global filter
	res, err = r.Resolve(ctx, snap, Request{Refs: []model.Spalte1Eintrag{
		ref(1), ref(2),
		ref(0, model.FlurFlurstueck{Flur: 5, Flurstueck: "1"}),
		ref(0, model.FlurFlurstueck{Flur: 3, Flurstueck: "11"}),
	}})
	require.NoError(t, err)
	assert.Equal(t, []Parcel{p(2, 3, "11")}, res.Parcels)
}

func TestResolve_ParsedFlurPhrases(t *testing.T) {
	snap := snapshot(
		parcel(1, 0, 3, "10"),
		parcel(2, 0, 4, "5"),
		parcel(3, 0, 4, "6"),
	)
	refs := rules.ParseReference("Flur 3 Flurstück 10; Flur 4 Flurstück 5")
	require.Len(t, refs, 2)

	res, err := NewResolver().Resolve(context.Background(), snap, Request{Refs: refs})
	require.NoError(t, err)
	assert.Equal(t, []Parcel{p(1, 3, "10"), p(2, 4, "5")}, res.Parcels)
	assert.Nil(t, res.Diagnostic)
}

func TestResolve_DropsCancelled(t *testing.T) {
	gone := parcel(1, 0, 3, "10")
	gone.Roetung.Automatic = true
	kept := parcel(2, 0, 3, "11")
	kept.Roetung.Automatic = true
	kept.Roetung.SetManual(false)

	snap := snapshot(gone, kept)
	res, err := NewResolver().Resolve(context.Background(), snap, Request{Refs: []model.Spalte1Eintrag{ref(1), ref(2)}})
	require.NoError(t, err)
	assert.Equal(t, []Parcel{p(2, 3, "11")}, res.Parcels)
}

func TestResolve_CancelledPredecessorContinues(t *testing.T) {
	old := parcel(1, 0, 3, "10")
	old.Roetung.Automatic = true
	snap := snapshot(old, parcel(7, 1, 3, "10"))

	res, err := NewResolver().Resolve(context.Background(), snap, Request{Refs: []model.Spalte1Eintrag{ref(1)}})
	require.NoError(t, err)
	assert.Equal(t, []Parcel{p(7, 3, "10")}, res.Parcels)
}

func TestResolve_Diagnostic(t *testing.T) {
	r := NewResolverWithConfig(Config{Patterns: []Pattern{
		{Name: "wegerecht", Regexp: regexp.MustCompile(`(?i)wegerecht`)},
		{Name: "leitung", Regexp: regexp.MustCompile(`(?i)leitung`)},
	}})
	snap := snapshot(parcel(1, 0, 3, "10"))

	res, err := r.Resolve(context.Background(), snap, Request{
		Refs:         []model.Spalte1Eintrag{ref(9)},
		RawReference: "9",
		Text:         "Wegerecht für den jeweiligen Eigentümer",
	})
	require.NoError(t, err)
	assert.Empty(t, res.Parcels)
	require.NotNil(t, res.Diagnostic)
	assert.NotEmpty(t, res.Diagnostic.ID)
	assert.Equal(t, "Wegerecht für den jeweiligen Eigentümer", res.Diagnostic.Text)
	assert.Equal(t, []string{"wegerecht"}, res.Diagnostic.Patterns)
}

func TestResolve_SnapshotIsolated(t *testing.T) {
	f := parcel(1, 0, 3, "10")
	bv := &model.Bestandsverzeichnis{Eintraege: []model.BvEintrag{f}}
	snap := NewSnapshot(district, bv)
	f.Flurstueck = "99"
	f.Roetung.Automatic = true

	res, err := NewResolver().Resolve(context.Background(), snap, Request{Refs: []model.Spalte1Eintrag{ref(1)}})
	require.NoError(t, err)
	assert.Equal(t, []Parcel{p(1, 3, "10")}, res.Parcels)
}

func TestResolveAll(t *testing.T) {
	snap := snapshot(
		parcel(1, 0, 3, "10"),
		parcel(2, 1, 3, "10"),
		parcel(3, 0, 4, "1"),
	)
	reqs := []Request{
		{Refs: []model.Spalte1Eintrag{ref(1)}},
		{Refs: []model.Spalte1Eintrag{ref(3)}},
		{Refs: []model.Spalte1Eintrag{ref(8)}},
	}
	results, err := NewResolver().ResolveAll(context.Background(), snap, reqs)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []Parcel{p(2, 3, "10")}, results[0].Parcels)
	assert.Equal(t, []Parcel{p(3, 4, "1")}, results[1].Parcels)
	assert.NotNil(t, results[2].Diagnostic)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewResolver().ResolveAll(ctx, snap, reqs)
	assert.ErrorIs(t, err, context.Canceled)
}
