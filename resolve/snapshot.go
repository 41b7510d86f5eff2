package resolve

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/tsawler/grundbuch/model"
)

// Parcel identifies a resolved parcel by its display key
type Parcel struct {
	LfdNr      int    `json:"lfd_nr"`
	Gemarkung  string `json:"gemarkung"`
	Flur       int    `json:"flur"`
	Flurstueck string `json:"flurstueck"`
}

func (p Parcel) String() string {
	return fmt.Sprintf("lfd. Nr. %d: Gemarkung %s Flur %d Flurstück %s", p.LfdNr, p.Gemarkung, p.Flur, p.Flurstueck)
}

// compare orders parcels by (lfd_nr, flur, flurstück, gemarkung)
func (p Parcel) compare(other Parcel) int {
	return cmp.Or(
		cmp.Compare(p.LfdNr, other.LfdNr),
		cmp.Compare(p.Flur, other.Flur),
		strings.Compare(p.Flurstueck, other.Flurstueck),
		strings.Compare(p.Gemarkung, other.Gemarkung),
	)
}

// sameLand reports whether both parcels denote the same piece of land
func (p Parcel) sameLand(other Parcel) bool {
	return p.Gemarkung == other.Gemarkung && p.Flur == other.Flur && p.Flurstueck == other.Flurstueck
}

type entry struct {
	Parcel
	bisherige int
	cancelled bool
}

// Snapshot is an immutable copy of the parcels of a Bestandsverzeichnis
type Snapshot struct {
	district string
	entries  []entry
}

// NewSnapshot copies the parcels of bv. district is the register's own
// Gemarkung, used for parcels and filters that name none.
func NewSnapshot(district string, bv *model.Bestandsverzeichnis) *Snapshot {
	district = strings.TrimSpace(district)
	s := &Snapshot{district: district}
	for _, f := range bv.Flurstuecke() {
		s.entries = append(s.entries, entry{
			Parcel: Parcel{
				LfdNr:      f.Nr,
				Gemarkung:  f.District(district),
				Flur:       f.Flur,
				Flurstueck: strings.TrimSpace(f.Flurstueck),
			},
			bisherige: f.BisherigeNr,
			cancelled: f.IsCancelled(),
		})
	}
	return s
}

// District returns the register's own Gemarkung
func (s *Snapshot) District() string { return s.district }

// Len returns the number of parcels
func (s *Snapshot) Len() int { return len(s.entries) }

// matches reports whether entry i satisfies at least one filter tuple
func (s *Snapshot) matches(i int, filters []model.FlurFlurstueck) bool {
	p := s.entries[i].Parcel
	for _, f := range filters {
		district := strings.TrimSpace(f.Gemarkung)
		if district == "" {
			district = s.district
		}
		if district != p.Gemarkung {
			continue
		}
		if f.Flur != 0 && f.Flur != p.Flur {
			continue
		}
		if strings.TrimSpace(f.Flurstueck) == p.Flurstueck {
			return true
		}
	}
	return false
}

// successors returns the entries continuing entry i. Entries naming i's
// number as their predecessor take precedence; otherwise the entries without
// a predecessor at the smallest higher number are used.
func (s *Snapshot) successors(i int) []int {
	p := s.entries[i]
	var named, unnamed []int
	for j, e := range s.entries {
		if e.LfdNr <= p.LfdNr || !e.sameLand(p.Parcel) {
			continue
		}
		switch e.bisherige {
		case p.LfdNr:
			named = appendUnique(s, named, j)
		case 0:
			unnamed = append(unnamed, j)
		}
	}
	if len(named) > 0 {
		return named
	}
	if len(unnamed) == 0 {
		return nil
	}
	lowest := s.entries[unnamed[0]].LfdNr
	for _, j := range unnamed[1:] {
		lowest = min(lowest, s.entries[j].LfdNr)
	}
	var out []int
	for _, j := range unnamed {
		if s.entries[j].LfdNr == lowest {
			out = appendUnique(s, out, j)
		}
	}
	return out
}

// appendUnique adds j unless an entry with the same display key is present
func appendUnique(s *Snapshot, list []int, j int) []int {
	for _, k := range list {
		if s.entries[k].Parcel == s.entries[j].Parcel {
			return list
		}
	}
	return append(list, j)
}
