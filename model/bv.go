package model

import (
	"encoding/json"
	"fmt"
)

// BvEintrag is an entry of the Bestandsverzeichnis: either a *BvFlurstueck or a *BvRecht.
type BvEintrag interface {
	Entry
	isBvEintrag()
}

// GroesseUnit tells how the area of a parcel was written
type GroesseUnit int

const (
	// GroesseMetrisch is a single square-metre figure
	GroesseMetrisch GroesseUnit = iota
	// GroesseHektar is split into ha / a / m² columns
	GroesseHektar
)

// Groesse is the area of a parcel
type Groesse struct {
	Unit GroesseUnit `json:"unit"`
	Ha   uint64      `json:"ha,omitempty"`
	A    uint64      `json:"a,omitempty"`
	M2   uint64      `json:"m2"`
}

// SquareMeters returns the area in m²
func (g Groesse) SquareMeters() uint64 {
	if g.Unit == GroesseHektar {
		return g.Ha*10000 + g.A*100 + g.M2
	}
	return g.M2
}

// IsZero reports whether no area was read
func (g Groesse) IsZero() bool {
	return g.Ha == 0 && g.A == 0 && g.M2 == 0
}

func (g Groesse) String() string {
	if g.Unit == GroesseHektar {
		return fmt.Sprintf("%d ha %d a %d m²", g.Ha, g.A, g.M2)
	}
	return fmt.Sprintf("%d m²", g.M2)
}

// BvFlurstueck is a cadastral parcel of the property
type BvFlurstueck struct {
	Nr          int          `json:"lfd_nr"`
	BisherigeNr int          `json:"bisherige_lfd_nr,omitempty"`
	Gemarkung   string       `json:"gemarkung,omitempty"` // empty: the register's own district
	Flur        int          `json:"flur"`
	Flurstueck  string       `json:"flurstueck"`
	Bezeichnung string       `json:"bezeichnung,omitempty"`
	Groesse     Groesse      `json:"groesse"`
	Roetung     Cancellation `json:"roetung"`
	Pos         Position     `json:"position"`
	Diagnostics Problems     `json:"problems,omitempty"`
}

func (f *BvFlurstueck) isBvEintrag()                {}
func (f *BvFlurstueck) LfdNr() int                  { return f.Nr }
func (f *BvFlurstueck) SetLfdNr(nr int)             { f.Nr = nr }
func (f *BvFlurstueck) Bisherige() int              { return f.BisherigeNr }
func (f *BvFlurstueck) Position() Position          { return f.Pos }
func (f *BvFlurstueck) Cancellation() *Cancellation { return &f.Roetung }
func (f *BvFlurstueck) IsCancelled() bool           { return f.Roetung.IsCancelled() }
func (f *BvFlurstueck) Problems() *Problems         { return &f.Diagnostics }

// IsEmpty reports whether the parcel carries no data besides its number
func (f *BvFlurstueck) IsEmpty() bool {
	return f.BisherigeNr == 0 && f.Gemarkung == "" && f.Flur == 0 && f.Flurstueck == "" &&
		f.Bezeichnung == "" && f.Groesse.IsZero()
}

// District returns the parcel's district, falling back to the register's own
func (f *BvFlurstueck) District(register string) string {
	if f.Gemarkung != "" {
		return f.Gemarkung
	}
	return register
}

// BvRecht is a right recorded in the Bestandsverzeichnis ("Herrschvermerk")
type BvRecht struct {
	Nr          int          `json:"lfd_nr"`
	BisherigeNr int          `json:"bisherige_lfd_nr,omitempty"`
	ZuNr        string       `json:"zu_nr"`
	Text        string       `json:"text"`
	Roetung     Cancellation `json:"roetung"`
	Pos         Position     `json:"position"`
	Diagnostics Problems     `json:"problems,omitempty"`
}

func (r *BvRecht) isBvEintrag()                {}
func (r *BvRecht) LfdNr() int                  { return r.Nr }
func (r *BvRecht) SetLfdNr(nr int)             { r.Nr = nr }
func (r *BvRecht) Bisherige() int              { return r.BisherigeNr }
func (r *BvRecht) Position() Position          { return r.Pos }
func (r *BvRecht) Cancellation() *Cancellation { return &r.Roetung }
func (r *BvRecht) IsCancelled() bool           { return r.Roetung.IsCancelled() }
func (r *BvRecht) Problems() *Problems         { return &r.Diagnostics }

// IsEmpty reports whether the right carries no data besides its number
func (r *BvRecht) IsEmpty() bool {
	return r.BisherigeNr == 0 && r.ZuNr == "" && r.Text == ""
}

// BvAnnotation is a Zuschreibung or Abschreibung. BvNr references entries as free text.
type BvAnnotation struct {
	BvNr        string       `json:"bv_nr"`
	Text        string       `json:"text"`
	Roetung     Cancellation `json:"roetung"`
	Pos         Position     `json:"position"`
	Diagnostics Problems     `json:"problems,omitempty"`
}

func (a *BvAnnotation) Position() Position          { return a.Pos }
func (a *BvAnnotation) Cancellation() *Cancellation { return &a.Roetung }
func (a *BvAnnotation) Problems() *Problems         { return &a.Diagnostics }

// Bestandsverzeichnis is the ordered parcel inventory with its annotations
type Bestandsverzeichnis struct {
	Eintraege      []BvEintrag     `json:"-"`
	Zuschreibungen []*BvAnnotation `json:"zuschreibungen,omitempty"`
	Abschreibungen []*BvAnnotation `json:"abschreibungen,omitempty"`
}

// Flurstuecke returns the parcel entries in register order
func (bv *Bestandsverzeichnis) Flurstuecke() []*BvFlurstueck {
	var out []*BvFlurstueck
	for _, e := range bv.Eintraege {
		if f, ok := e.(*BvFlurstueck); ok {
			out = append(out, f)
		}
	}
	return out
}

// Lookup returns every entry carrying the given number
func (bv *Bestandsverzeichnis) Lookup(nr int) []BvEintrag {
	var out []BvEintrag
	for _, e := range bv.Eintraege {
		if e.LfdNr() == nr {
			out = append(out, e)
		}
	}
	return out
}

// Entries returns the entries as the shared Entry capability
func (bv *Bestandsverzeichnis) Entries() []Entry {
	out := make([]Entry, len(bv.Eintraege))
	for i, e := range bv.Eintraege {
		out[i] = e
	}
	return out
}

type taggedBvEintrag struct {
	Flurstueck *BvFlurstueck `json:"flurstueck,omitempty"`
	Recht      *BvRecht      `json:"recht,omitempty"`
}

// MarshalJSON tags each entry with its variant
func (bv Bestandsverzeichnis) MarshalJSON() ([]byte, error) {
	type plain Bestandsverzeichnis
	tagged := make([]taggedBvEintrag, 0, len(bv.Eintraege))
	for _, e := range bv.Eintraege {
		switch v := e.(type) {
		case *BvFlurstueck:
			tagged = append(tagged, taggedBvEintrag{Flurstueck: v})
		case *BvRecht:
			tagged = append(tagged, taggedBvEintrag{Recht: v})
		}
	}
	return json.Marshal(struct {
		Eintraege []taggedBvEintrag `json:"eintraege"`
		plain
	}{tagged, plain(bv)})
}

// UnmarshalJSON restores tagged entries
func (bv *Bestandsverzeichnis) UnmarshalJSON(data []byte) error {
	type plain Bestandsverzeichnis
	var aux struct {
		Eintraege []taggedBvEintrag `json:"eintraege"`
		plain
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*bv = Bestandsverzeichnis(aux.plain)
	bv.Eintraege = nil
	for i, t := range aux.Eintraege {
		switch {
		case t.Flurstueck != nil:
			bv.Eintraege = append(bv.Eintraege, t.Flurstueck)
		case t.Recht != nil:
			bv.Eintraege = append(bv.Eintraege, t.Recht)
		default:
			return fmt.Errorf("bestandsverzeichnis entry %d: no variant tag", i)
		}
	}
	return nil
}
