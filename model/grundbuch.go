package model

import "strings"

// Titelblatt identifies the register sheet. It is read once and not changed afterwards.
type Titelblatt struct {
	Amtsgericht  string `json:"amtsgericht"`
	GrundbuchVon string `json:"grundbuch_von"`
	Blatt        string `json:"blatt"`
}

// ID returns a stable identifier of the sheet, usable as a cache namespace
func (t Titelblatt) ID() string {
	parts := []string{t.Amtsgericht, t.GrundbuchVon, t.Blatt}
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(strings.TrimSpace(p), "/", "_")
	}
	return strings.Join(parts, "/")
}

// Grundbuch is the reconstructed register sheet
type Grundbuch struct {
	Titelblatt          Titelblatt          `json:"titelblatt"`
	Bestandsverzeichnis Bestandsverzeichnis `json:"bestandsverzeichnis"`
	Abteilung1          Abteilung1          `json:"abt1"`
	Abteilung2          Abteilung2          `json:"abt2"`
	Abteilung3          Abteilung3          `json:"abt3"`
}

// Cancellation is the two-layer Rötung flag of an entry
type Cancellation struct {
	// Automatic is derived from red pixels in the scanned row
	Automatic bool `json:"automatisch"`
	// Manual is set by an operator; nil means no decision was made
	Manual *bool `json:"manuell,omitempty"`
}

// IsCancelled resolves the two layers. A manual decision always wins.
func (c Cancellation) IsCancelled() bool {
	if c.Manual != nil {
		return *c.Manual
	}
	return c.Automatic
}

// SetManual records an operator decision
func (c *Cancellation) SetManual(cancelled bool) {
	c.Manual = &cancelled
}

// Position is where a record was read from
type Position struct {
	Page int  `json:"page"`
	BBox BBox `json:"bbox"`
}

// Entry is the capability set shared by every numbered register record.
// Consistency repair and the automatic cancellation pass work on Entry values.
type Entry interface {
	LfdNr() int
	SetLfdNr(nr int)
	// Bisherige is the predecessor number recorded on the entry, 0 if none
	Bisherige() int
	Position() Position
	Cancellation() *Cancellation
	IsCancelled() bool
	Problems() *Problems
	// IsEmpty reports whether the entry carries no content besides its number
	IsEmpty() bool
}

// Textblock is a run of text with the rectangle it was read from
type Textblock struct {
	Text string `json:"text"`
	BBox BBox   `json:"bbox"`
}

// Expand widens the block to cover other and appends its text, separated
// by a single space.
func (t *Textblock) Expand(other Textblock) {
	t.BBox = t.BBox.Union(other.BBox)
	add := strings.TrimSpace(other.Text)
	if add == "" {
		return
	}
	if t.Text == "" {
		t.Text = add
		return
	}
	t.Text = t.Text + " " + add
}
