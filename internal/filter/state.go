// Package filter holds the list-query criteria for the coin listing: which
// coins, in what order, on what page. State is a plain value; Store guards
// it and enforces the pagination rules; Serialize turns it into backend
// query parameters.
package filter

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// SortField is an attribute the backend can sort the listing by.
type SortField string

const (
	SortYear         SortField = "year"
	SortName         SortField = "name"
	SortDenomination SortField = "denomination"
	SortMetal        SortField = "metal"
	SortCategory     SortField = "category"
	SortGrade        SortField = "grade"
	SortRarity       SortField = "rarity"
	SortPrice        SortField = "price"
	SortAcquired     SortField = "acquired"
	SortCreated      SortField = "created"
	SortValue        SortField = "value"
	SortWeight       SortField = "weight"
)

var sortFields = map[SortField]bool{
	SortYear: true, SortName: true, SortDenomination: true, SortMetal: true,
	SortCategory: true, SortGrade: true, SortRarity: true, SortPrice: true,
	SortAcquired: true, SortCreated: true, SortValue: true, SortWeight: true,
}

// Valid reports whether f is one of the sortable attributes.
func (f SortField) Valid() bool { return sortFields[f] }

// SortDir is the listing order.
type SortDir string

const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

// Valid reports whether d is asc or desc.
func (d SortDir) Valid() bool { return d == Asc || d == Desc }

// Flip returns the opposite direction.
func (d SortDir) Flip() SortDir {
	if d == Asc {
		return Desc
	}
	return Asc
}

// PageSize is the number of coins per page, or PageSizeAll.
type PageSize int

const (
	// PageSizeAll shows every coin on one page.
	PageSizeAll PageSize = -1

	// AllPerPage is what PageSizeAll is sent to the backend as.
	AllPerPage = 1000

	DefaultPageSize PageSize = 20
)

// PageSizes lists the selectable page sizes in display order.
var PageSizes = []PageSize{20, 50, 100, PageSizeAll}

// Valid reports whether p is one of PageSizes.
func (p PageSize) Valid() bool {
	for _, v := range PageSizes {
		if v == p {
			return true
		}
	}
	return false
}

// PerPage is the per_page value sent to the backend.
func (p PageSize) PerPage() int {
	if p == PageSizeAll {
		return AllPerPage
	}
	return int(p)
}

// MarshalJSON encodes PageSizeAll as "all".
func (p PageSize) MarshalJSON() ([]byte, error) {
	if p == PageSizeAll {
		return []byte(`"all"`), nil
	}
	return []byte(strconv.Itoa(int(p))), nil
}

// UnmarshalJSON accepts a number or the string "all".
func (p *PageSize) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "all" {
			*p = PageSizeAll
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid page size %q", s)
		}
		*p = PageSize(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid page size %s", data)
	}
	*p = PageSize(n)
	return nil
}

// PriceUnbounded is the upper end of the default price range.
const PriceUnbounded = math.MaxFloat64

// PriceRange is an inclusive acquisition price range.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultPriceRange covers every price.
var DefaultPriceRange = PriceRange{Min: 0, Max: PriceUnbounded}

// IsDefault reports whether neither bound narrows the range.
func (r PriceRange) IsDefault() bool { return r == DefaultPriceRange }

// Ordered returns r with Min <= Max.
func (r PriceRange) Ordered() PriceRange {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}

// UnmarshalJSON starts from DefaultPriceRange, so a missing bound stays open.
func (r *PriceRange) UnmarshalJSON(data []byte) error {
	type plain PriceRange
	v := plain(DefaultPriceRange)
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = PriceRange(v)
	return nil
}

// State is everything that selects and orders the visible coins.
// Empty strings and nil pointers mean "not filtered".
type State struct {
	Search string `json:"search,omitempty"`

	Category        string `json:"category,omitempty"`
	SubCategory     string `json:"sub_category,omitempty"`
	Metal           string `json:"metal,omitempty"`
	Denomination    string `json:"denomination,omitempty"`
	Grade           string `json:"grade,omitempty"`
	Rarity          string `json:"rarity,omitempty"`
	StorageLocation string `json:"storage_location,omitempty"`

	IssuingAuthority string `json:"issuing_authority,omitempty"`
	Mint             string `json:"mint,omitempty"`
	RulerUnknown     *bool  `json:"ruler_unknown,omitempty"`
	MintUnknown      *bool  `json:"mint_unknown,omitempty"`
	YearUnknown      *bool  `json:"year_unknown,omitempty"`

	PriceRange PriceRange `json:"price_range"`
	YearMin    *int       `json:"year_min,omitempty"`
	YearMax    *int       `json:"year_max,omitempty"`

	Circa   *bool `json:"circa,omitempty"`
	TestCut *bool `json:"test_cut,omitempty"`

	SortBy   SortField `json:"sort_by"`
	SortDir  SortDir   `json:"sort_dir"`
	Page     int       `json:"page"`
	PageSize PageSize  `json:"page_size"`
}

// Default is the state of a fresh session: nothing filtered, sorted by year
// ascending, first page.
func Default() State {
	return State{
		PriceRange: DefaultPriceRange,
		SortBy:     SortYear,
		SortDir:    Asc,
		Page:       1,
		PageSize:   DefaultPageSize,
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.RulerUnknown = cloneBool(s.RulerUnknown)
	s.MintUnknown = cloneBool(s.MintUnknown)
	s.YearUnknown = cloneBool(s.YearUnknown)
	s.Circa = cloneBool(s.Circa)
	s.TestCut = cloneBool(s.TestCut)
	s.YearMin = cloneInt(s.YearMin)
	s.YearMax = cloneInt(s.YearMax)
	return s
}

// UnmarshalJSON leaves PriceRange at DefaultPriceRange when the key is absent.
func (s *State) UnmarshalJSON(data []byte) error {
	type plain State
	v := plain{PriceRange: DefaultPriceRange}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = State(v)
	return nil
}

// Normalize repairs values that cannot have come from the typed setters,
// e.g. hand-edited or stale persisted state.
func Normalize(s State) State {
	d := Default()
	if s.Page < 1 {
		s.Page = 1
	}
	if !s.PageSize.Valid() {
		s.PageSize = d.PageSize
	}
	if !s.SortBy.Valid() {
		s.SortBy = d.SortBy
	}
	if !s.SortDir.Valid() {
		s.SortDir = d.SortDir
	}
	s.PriceRange = s.PriceRange.Ordered()
	return s
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

// Bool returns a pointer to b, for the tri-state setters.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i, for the year range setters.
func Int(i int) *int { return &i }
