package model

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

// ============================================================================
// Geometry Tests
// ============================================================================

func TestPointDistance(t *testing.T) {
	tests := []struct {
		name     string
		p1, p2   Point
		expected float64
	}{
		{"same point", Point{0, 0}, Point{0, 0}, 0},
		{"horizontal", Point{0, 0}, Point{3, 0}, 3},
		{"diagonal 3-4-5", Point{0, 0}, Point{3, 4}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.p1.Distance(tt.p2)
			if math.Abs(result-tt.expected) > 0.0001 {
				t.Errorf("Distance() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestNewBBoxFromEdges(t *testing.T) {
	tests := []struct {
		name                   string
		minX, minY, maxX, maxY float64
		want                   BBox
	}{
		{"normal", 10, 20, 50, 70, BBox{10, 20, 40, 50}},
		{"reversed", 50, 70, 10, 20, BBox{10, 20, 40, 50}},
		{"degenerate", 10, 10, 10, 10, BBox{10, 10, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBBoxFromEdges(tt.minX, tt.minY, tt.maxX, tt.maxY)
			if got != tt.want {
				t.Errorf("NewBBoxFromEdges() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBBoxEdges(t *testing.T) {
	bbox := NewBBox(10, 20, 100, 50)

	if bbox.MinX() != 10 || bbox.MaxX() != 110 {
		t.Errorf("x edges = %v..%v, want 10..110", bbox.MinX(), bbox.MaxX())
	}
	// y grows downward: MinY is the upper edge
	if bbox.MinY() != 20 || bbox.MaxY() != 70 {
		t.Errorf("y edges = %v..%v, want 20..70", bbox.MinY(), bbox.MaxY())
	}
	if c := bbox.Center(); c.X != 60 || c.Y != 45 {
		t.Errorf("Center() = %+v, want {60, 45}", c)
	}
}

func TestBBoxContains(t *testing.T) {
	bbox := NewBBox(0, 0, 100, 100)

	tests := []struct {
		name     string
		point    Point
		expected bool
	}{
		{"inside", Point{50, 50}, true},
		{"on left edge", Point{0, 50}, true},
		{"on lower edge", Point{50, 100}, true},
		{"outside right", Point{101, 50}, false},
		{"above", Point{50, -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := bbox.Contains(tt.point); result != tt.expected {
				t.Errorf("Contains(%+v) = %v, want %v", tt.point, result, tt.expected)
			}
		})
	}
}

func TestBBoxIntersects(t *testing.T) {
	bbox := NewBBox(0, 0, 100, 100)

	tests := []struct {
		name     string
		other    BBox
		expected bool
	}{
		{"overlapping", NewBBox(50, 50, 100, 100), true},
		{"touching", NewBBox(100, 0, 10, 10), true},
		{"separate", NewBBox(200, 200, 10, 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := bbox.Intersects(tt.other); result != tt.expected {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, result, tt.expected)
			}
		})
	}
}

func TestBBoxUnion(t *testing.T) {
	a := NewBBox(0, 0, 10, 10)
	b := NewBBox(20, 5, 10, 10)

	if got, want := a.Union(b), NewBBox(0, 0, 30, 15); got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}
	if got := (BBox{}).Union(b); got != b {
		t.Errorf("empty Union() = %+v, want %+v", got, b)
	}
	if got := a.Union(BBox{}); got != a {
		t.Errorf("Union(empty) = %+v, want %+v", got, a)
	}
}

func TestBBoxIsEmpty(t *testing.T) {
	if !NewBBox(5, 5, 0, 10).IsEmpty() {
		t.Error("zero width should be empty")
	}
	if NewBBox(5, 5, 1, 1).IsEmpty() {
		t.Error("1x1 box should not be empty")
	}
	if got := NewBBox(1, 2, 3, 4).Translate(10, 20); got != NewBBox(11, 22, 3, 4) {
		t.Errorf("Translate() = %+v", got)
	}
}

// ============================================================================
// Record Tests
// ============================================================================

func TestTextblockExpand(t *testing.T) {
	tb := Textblock{Text: "Hof- und", BBox: NewBBox(10, 10, 20, 4)}
	tb.Expand(Textblock{Text: " Gebäudefläche ", BBox: NewBBox(10, 15, 30, 4)})

	if tb.Text != "Hof- und Gebäudefläche" {
		t.Errorf("Text = %q", tb.Text)
	}
	if want := NewBBox(10, 10, 30, 9); tb.BBox != want {
		t.Errorf("BBox = %+v, want %+v", tb.BBox, want)
	}

	empty := Textblock{}
	empty.Expand(Textblock{Text: "1", BBox: NewBBox(1, 1, 1, 1)})
	if empty.Text != "1" {
		t.Errorf("Text = %q, want %q", empty.Text, "1")
	}
}

func TestCancellation(t *testing.T) {
	tests := []struct {
		name      string
		automatic bool
		manual    *bool
		expected  bool
	}{
		{"none", false, nil, false},
		{"automatic", true, nil, true},
		{"manual overrides automatic", true, ptr(false), false},
		{"manual without automatic", false, ptr(true), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Cancellation{Automatic: tt.automatic, Manual: tt.manual}
			if got := c.IsCancelled(); got != tt.expected {
				t.Errorf("IsCancelled() = %v, want %v", got, tt.expected)
			}
		})
	}

	var c Cancellation
	c.SetManual(true)
	c.Automatic = false
	if !c.IsCancelled() {
		t.Error("manual decision should survive a later automatic pass")
	}
}

func ptr(b bool) *bool { return &b }

func TestProblems(t *testing.T) {
	var ps Problems
	ps.Add(Warningf("BV-Nr. missing"))
	ps.Add(Warningf("BV-Nr. missing"))
	ps.Add(Consistencyf("gap after %d", 3).With("page", "2"))

	if len(ps) != 2 {
		t.Fatalf("len = %d, want 2 (duplicates are dropped)", len(ps))
	}
	if !ps.HasErrors() {
		t.Error("HasErrors() = false, want true")
	}
	if got := len(ps.OfKind(KindConsistency)); got != 1 {
		t.Errorf("OfKind(consistency) = %d, want 1", got)
	}
	if got := ps[1].String(); got != `error [consistency] gap after 3 page="2"` {
		t.Errorf("String() = %q", got)
	}

	ps.Remove(Warningf("BV-Nr. missing"))
	if len(ps) != 1 || ps[0].Kind != KindConsistency {
		t.Errorf("Remove() left %v", ps)
	}
}

func TestProblemWithCopies(t *testing.T) {
	base := Warningf("x").With("a", "1")
	derived := base.With("b", "2")

	if len(base.Context) != 1 {
		t.Errorf("With() modified the receiver: %v", base.Context)
	}
	if base.Equal(derived) {
		t.Error("problems with different context should differ")
	}
}

func TestGroesse(t *testing.T) {
	tests := []struct {
		name     string
		g        Groesse
		expected uint64
		str      string
	}{
		{"metric", Groesse{Unit: GroesseMetrisch, M2: 512}, 512, "512 m²"},
		{"hectare", Groesse{Unit: GroesseHektar, Ha: 1, A: 2, M2: 3}, 10203, "1 ha 2 a 3 m²"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.SquareMeters(); got != tt.expected {
				t.Errorf("SquareMeters() = %d, want %d", got, tt.expected)
			}
			if got := tt.g.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
		})
	}
}

func TestTitelblattID(t *testing.T) {
	tb := Titelblatt{Amtsgericht: " Musterstadt ", GrundbuchVon: "Musterdorf", Blatt: "12/3"}
	if got := tb.ID(); got != "Musterstadt/Musterdorf/12_3" {
		t.Errorf("ID() = %q", got)
	}
}

func TestBestandsverzeichnisLookup(t *testing.T) {
	bv := Bestandsverzeichnis{Eintraege: []BvEintrag{
		&BvFlurstueck{Nr: 1, Flur: 3, Flurstueck: "10"},
		&BvRecht{Nr: 2, ZuNr: "1", Text: "Wegerecht"},
		&BvFlurstueck{Nr: 2, Flur: 3, Flurstueck: "11"},
	}}

	if got := len(bv.Flurstuecke()); got != 2 {
		t.Errorf("Flurstuecke() = %d entries, want 2", got)
	}
	if got := len(bv.Lookup(2)); got != 2 {
		t.Errorf("Lookup(2) = %d entries, want 2", got)
	}
	if got := (&BvFlurstueck{Gemarkung: "Nachbarort"}).District("Musterdorf"); got != "Nachbarort" {
		t.Errorf("District() = %q", got)
	}
}

func TestBestandsverzeichnisJSON(t *testing.T) {
	bv := Bestandsverzeichnis{Eintraege: []BvEintrag{
		&BvFlurstueck{Nr: 1, Flur: 3, Flurstueck: "10"},
		&BvRecht{Nr: 2, ZuNr: "1", Text: "Wegerecht"},
	}}

	data, err := json.Marshal(bv)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded Bestandsverzeichnis
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded.Eintraege) != 2 {
		t.Fatalf("decoded %d entries, want 2", len(decoded.Eintraege))
	}
	if _, ok := decoded.Eintraege[0].(*BvFlurstueck); !ok {
		t.Errorf("entry 0 is %T, want *BvFlurstueck", decoded.Eintraege[0])
	}
	if r, ok := decoded.Eintraege[1].(*BvRecht); !ok || r.ZuNr != "1" {
		t.Errorf("entry 1 = %#v, want *BvRecht zu 1", decoded.Eintraege[1])
	}

	if err := json.Unmarshal([]byte(`{"eintraege":[{}]}`), &decoded); err == nil {
		t.Error("untagged entry should fail")
	}
}

func TestErrors(t *testing.T) {
	inner := errors.New("not enabled")
	pe := &PageError{Page: 4, Err: inner}
	if pe.Error() != "page 4: not enabled" || pe.Unwrap() != inner {
		t.Errorf("PageError = %q", pe.Error())
	}

	te := &ToolError{Page: 2, Path: "page-002.tif", Op: "load scan", Err: inner}
	if te.Error() != "load scan page 2 (page-002.tif): not enabled" {
		t.Errorf("ToolError = %q", te.Error())
	}
}

