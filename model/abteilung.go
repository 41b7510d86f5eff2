package model

// Abt1Eintrag is an ownership entry
type Abt1Eintrag struct {
	Nr          int          `json:"lfd_nr"`
	Eigentuemer string       `json:"eigentuemer"`
	BvNr        string       `json:"bv_nr,omitempty"`
	Grundlage   string       `json:"grundlage,omitempty"`
	Roetung     Cancellation `json:"roetung"`
	Pos         Position     `json:"position"`
	Diagnostics Problems     `json:"problems,omitempty"`
}

func (e *Abt1Eintrag) LfdNr() int                  { return e.Nr }
func (e *Abt1Eintrag) SetLfdNr(nr int)             { e.Nr = nr }
func (e *Abt1Eintrag) Bisherige() int              { return 0 }
func (e *Abt1Eintrag) Position() Position          { return e.Pos }
func (e *Abt1Eintrag) Cancellation() *Cancellation { return &e.Roetung }
func (e *Abt1Eintrag) IsCancelled() bool           { return e.Roetung.IsCancelled() }
func (e *Abt1Eintrag) Problems() *Problems         { return &e.Diagnostics }
func (e *Abt1Eintrag) IsEmpty() bool {
	return e.Eigentuemer == "" && e.BvNr == "" && e.Grundlage == ""
}

// Abt2Eintrag is an encumbrance or restriction
type Abt2Eintrag struct {
	Nr int `json:"lfd_nr"`
	// BvNr is the raw "column 1" reference to the encumbered BV entries
	BvNr        string       `json:"bv_nr"`
	Text        string       `json:"text"`
	Roetung     Cancellation `json:"roetung"`
	Pos         Position     `json:"position"`
	Diagnostics Problems     `json:"problems,omitempty"`
}

func (e *Abt2Eintrag) LfdNr() int                  { return e.Nr }
func (e *Abt2Eintrag) SetLfdNr(nr int)             { e.Nr = nr }
func (e *Abt2Eintrag) Bisherige() int              { return 0 }
func (e *Abt2Eintrag) Position() Position          { return e.Pos }
func (e *Abt2Eintrag) Cancellation() *Cancellation { return &e.Roetung }
func (e *Abt2Eintrag) IsCancelled() bool           { return e.Roetung.IsCancelled() }
func (e *Abt2Eintrag) Problems() *Problems         { return &e.Diagnostics }
func (e *Abt2Eintrag) IsEmpty() bool               { return e.BvNr == "" && e.Text == "" }

// Abt3Eintrag is a monetary charge
type Abt3Eintrag struct {
	Nr          int          `json:"lfd_nr"`
	BvNr        string       `json:"bv_nr"`
	Betrag      string       `json:"betrag"`
	Text        string       `json:"text"`
	Roetung     Cancellation `json:"roetung"`
	Pos         Position     `json:"position"`
	Diagnostics Problems     `json:"problems,omitempty"`
}

func (e *Abt3Eintrag) LfdNr() int                  { return e.Nr }
func (e *Abt3Eintrag) SetLfdNr(nr int)             { e.Nr = nr }
func (e *Abt3Eintrag) Bisherige() int              { return 0 }
func (e *Abt3Eintrag) Position() Position          { return e.Pos }
func (e *Abt3Eintrag) Cancellation() *Cancellation { return &e.Roetung }
func (e *Abt3Eintrag) IsCancelled() bool           { return e.Roetung.IsCancelled() }
func (e *Abt3Eintrag) Problems() *Problems         { return &e.Diagnostics }
func (e *Abt3Eintrag) IsEmpty() bool {
	return e.BvNr == "" && e.Betrag == "" && e.Text == ""
}

// AbtAnnotation is a Veränderung or Löschung. LfdNr references entries as free text.
type AbtAnnotation struct {
	LfdNr       string       `json:"lfd_nr"`
	Betrag      string       `json:"betrag,omitempty"`
	Text        string       `json:"text"`
	Roetung     Cancellation `json:"roetung"`
	Pos         Position     `json:"position"`
	Diagnostics Problems     `json:"problems,omitempty"`
}

func (a *AbtAnnotation) Position() Position          { return a.Pos }
func (a *AbtAnnotation) Cancellation() *Cancellation { return &a.Roetung }
func (a *AbtAnnotation) Problems() *Problems         { return &a.Diagnostics }

// Abteilung1 is the ownership section
type Abteilung1 struct {
	Eintraege      []*Abt1Eintrag   `json:"eintraege"`
	Veraenderungen []*AbtAnnotation `json:"veraenderungen,omitempty"`
	Loeschungen    []*AbtAnnotation `json:"loeschungen,omitempty"`
}

// Abteilung2 is the encumbrance section
type Abteilung2 struct {
	Eintraege      []*Abt2Eintrag   `json:"eintraege"`
	Veraenderungen []*AbtAnnotation `json:"veraenderungen,omitempty"`
	Loeschungen    []*AbtAnnotation `json:"loeschungen,omitempty"`
}

// Abteilung3 is the monetary charge section
type Abteilung3 struct {
	Eintraege      []*Abt3Eintrag   `json:"eintraege"`
	Veraenderungen []*AbtAnnotation `json:"veraenderungen,omitempty"`
	Loeschungen    []*AbtAnnotation `json:"loeschungen,omitempty"`
}

// Spalte1Eintrag is one parsed "column 1" reference of a right
type Spalte1Eintrag struct {
	// BvNr is the referenced BV number; 0 means the reference is resolved
	// against the whole register through Filter alone.
	BvNr int `json:"bv_nr"`
	// Teilbelastet is set when only part of the entry is encumbered
	Teilbelastet bool             `json:"teilbelastet,omitempty"`
	Filter       []FlurFlurstueck `json:"filter,omitempty"`
}

// FlurFlurstueck restricts a reference to particular parcels
type FlurFlurstueck struct {
	Flur        int    `json:"flur"` // 0 matches every Flur
	Flurstueck  string `json:"flurstueck"`
	Gemarkung   string `json:"gemarkung,omitempty"` // empty: the register's own district
	Teilflaeche string `json:"teilflaeche,omitempty"`
}
