package models

import (
	"fmt"
	"sort"
)

const (
	// AreaCapKm2 bounds the total area of a selection without a sovereign region.
	AreaCapKm2 = 6_000_000.0

	// USDPerMillionKm2 is the flat territory rate.
	USDPerMillionKm2 = 0.4
)

// Category is the size tier of a region.
type Category string

const (
	CategorySovereign Category = "SOVEREIGN"
	CategoryDomain    Category = "DOMAIN"
	CategoryOutpost   Category = "OUTPOST"
)

func (c Category) IsValid() bool {
	switch c {
	case CategorySovereign, CategoryDomain, CategoryOutpost:
		return true
	}
	return false
}

// ParseCategory accepts the canonical upper-case names.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("unknown region category %q", s)
	}
	return c, nil
}

// Region is immutable catalog reference data.
type Region struct {
	Name     string   `json:"name"`
	Area     float64  `json:"area_km2"`
	Category Category `json:"category"`
	Active   bool     `json:"active"`
}

// SelectedRegion is a snapshot of a Region taken when it was selected.
type SelectedRegion struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Area     float64  `json:"area_km2"`
}

// Snapshot returns the selection-time view of r.
func (r Region) Snapshot() SelectedRegion {
	return SelectedRegion{Name: r.Name, Category: r.Category, Area: r.Area}
}

// Selection is a set of selected regions keyed by name.
//
// Selection values are immutable: With and Without return new values and
// never touch the receiver, so a rejected mutation cannot leave a partial
// change behind.
type Selection struct {
	members []SelectedRegion // sorted by name, unique
}

// NewSelection builds a selection, keeping the first occurrence of each name.
func NewSelection(regions ...SelectedRegion) Selection {
	var s Selection
	for _, r := range regions {
		if !s.Contains(r.Name) {
			s = s.With(r)
		}
	}
	return s
}

func (s Selection) index(name string) (int, bool) {
	i := sort.Search(len(s.members), func(i int) bool { return s.members[i].Name >= name })
	return i, i < len(s.members) && s.members[i].Name == name
}

func (s Selection) Contains(name string) bool {
	_, ok := s.index(name)
	return ok
}

// With returns a selection that includes r, replacing any member with the same name.
func (s Selection) With(r SelectedRegion) Selection {
	i, ok := s.index(r.Name)
	next := make([]SelectedRegion, 0, len(s.members)+1)
	next = append(next, s.members[:i]...)
	next = append(next, r)
	if ok {
		i++
	}
	next = append(next, s.members[i:]...)
	return Selection{members: next}
}

// Without returns a selection lacking name. It returns s unchanged when name is absent.
func (s Selection) Without(name string) Selection {
	i, ok := s.index(name)
	if !ok {
		return s
	}
	next := make([]SelectedRegion, 0, len(s.members)-1)
	next = append(next, s.members[:i]...)
	next = append(next, s.members[i+1:]...)
	return Selection{members: next}
}

func (s Selection) Len() int {
	return len(s.members)
}

func (s Selection) IsEmpty() bool {
	return len(s.members) == 0
}

// Members returns a copy of the members ordered by name.
func (s Selection) Members() []SelectedRegion {
	out := make([]SelectedRegion, len(s.members))
	copy(out, s.members)
	return out
}

// Names returns member names in sorted order.
func (s Selection) Names() []string {
	out := make([]string, len(s.members))
	for i, m := range s.members {
		out[i] = m.Name
	}
	return out
}

// TotalArea sums member areas.
func (s Selection) TotalArea() float64 {
	var total float64
	for _, m := range s.members {
		total += m.Area
	}
	return total
}

// HasSovereign reports whether any member is SOVEREIGN.
func (s Selection) HasSovereign() bool {
	for _, m := range s.members {
		if m.Category == CategorySovereign {
			return true
		}
	}
	return false
}

// Equal reports whether both selections hold identical members.
func (s Selection) Equal(other Selection) bool {
	if len(s.members) != len(other.members) {
		return false
	}
	for i := range s.members {
		if s.members[i] != other.members[i] {
			return false
		}
	}
	return true
}

// ClaimPayload is derived from a Selection and carried into submission.
// Prices are stored unrounded.
type ClaimPayload struct {
	Regions    []string `json:"regions"`
	TotalArea  float64  `json:"total_area_km2"`
	TotalPrice float64  `json:"total_price_usd"`
}

func (p ClaimPayload) IsEmpty() bool {
	return len(p.Regions) == 0
}

// Clone returns a copy that shares no backing storage with p.
func (p ClaimPayload) Clone() ClaimPayload {
	out := p
	if p.Regions != nil {
		out.Regions = append([]string(nil), p.Regions...)
	}
	return out
}
