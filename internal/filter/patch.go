package filter

import (
	"encoding/json"
	"fmt"
)

// Opt is a patch field that tells apart "absent" (Set false), "cleared"
// (Set true, Value nil, from JSON null) and "set" (Set true, Value non-nil).
type Opt[T any] struct {
	Set   bool
	Value *T
}

// Some returns an Opt carrying v.
func Some[T any](v T) Opt[T] { return Opt[T]{Set: true, Value: &v} }

// Clear returns an Opt that resets the field.
func Clear[T any]() Opt[T] { return Opt[T]{Set: true} }

// UnmarshalJSON is only invoked for keys present in the document.
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Patch is a partial filter update. Each field maps onto one typed setter.
type Patch struct {
	Search           Opt[string]     `json:"search"`
	Category         Opt[string]     `json:"category"`
	SubCategory      Opt[string]     `json:"sub_category"`
	Metal            Opt[string]     `json:"metal"`
	Denomination     Opt[string]     `json:"denomination"`
	Grade            Opt[string]     `json:"grade"`
	Rarity           Opt[string]     `json:"rarity"`
	StorageLocation  Opt[string]     `json:"storage_location"`
	IssuingAuthority Opt[string]     `json:"issuing_authority"`
	Mint             Opt[string]     `json:"mint"`
	RulerUnknown     Opt[bool]       `json:"ruler_unknown"`
	MintUnknown      Opt[bool]       `json:"mint_unknown"`
	YearUnknown      Opt[bool]       `json:"year_unknown"`
	Circa            Opt[bool]       `json:"circa"`
	TestCut          Opt[bool]       `json:"test_cut"`
	PriceRange       Opt[PriceRange] `json:"price_range"`
	YearMin          Opt[int]        `json:"year_min"`
	YearMax          Opt[int]        `json:"year_max"`
}

// Validate rejects values no setter would accept from a client.
func (p Patch) Validate() error {
	if v := p.PriceRange.Value; v != nil && v.Min > v.Max {
		return fmt.Errorf("price_range min %g is greater than max %g", v.Min, v.Max)
	}
	return nil
}

// Empty reports whether the patch touches nothing.
func (p Patch) Empty() bool {
	return !(p.Search.Set || p.Category.Set || p.SubCategory.Set || p.Metal.Set ||
		p.Denomination.Set || p.Grade.Set || p.Rarity.Set || p.StorageLocation.Set ||
		p.IssuingAuthority.Set || p.Mint.Set || p.RulerUnknown.Set || p.MintUnknown.Set ||
		p.YearUnknown.Set || p.Circa.Set || p.TestCut.Set || p.PriceRange.Set ||
		p.YearMin.Set || p.YearMax.Set)
}

// Apply performs every field of p as one mutation and returns to page 1.
// An empty patch changes nothing.
func (s *Store) Apply(p Patch) {
	if p.Empty() {
		return
	}
	s.update(true, func(st *State) {
		applyString(&st.Search, p.Search)
		applyString(&st.Category, p.Category)
		applyString(&st.SubCategory, p.SubCategory)
		applyString(&st.Metal, p.Metal)
		applyString(&st.Denomination, p.Denomination)
		applyString(&st.Grade, p.Grade)
		applyString(&st.Rarity, p.Rarity)
		applyString(&st.StorageLocation, p.StorageLocation)
		applyString(&st.IssuingAuthority, p.IssuingAuthority)
		applyString(&st.Mint, p.Mint)
		applyPtr(&st.RulerUnknown, p.RulerUnknown)
		applyPtr(&st.MintUnknown, p.MintUnknown)
		applyPtr(&st.YearUnknown, p.YearUnknown)
		applyPtr(&st.Circa, p.Circa)
		applyPtr(&st.TestCut, p.TestCut)
		applyPtr(&st.YearMin, p.YearMin)
		applyPtr(&st.YearMax, p.YearMax)
		if p.PriceRange.Set {
			st.PriceRange = DefaultPriceRange
			if p.PriceRange.Value != nil {
				st.PriceRange = p.PriceRange.Value.Ordered()
			}
		}
	})
}

func applyString(dst *string, o Opt[string]) {
	if !o.Set {
		return
	}
	*dst = ""
	if o.Value != nil {
		*dst = *o.Value
	}
}

func applyPtr[T any](dst **T, o Opt[T]) {
	if !o.Set {
		return
	}
	*dst = nil
	if o.Value != nil {
		v := *o.Value
		*dst = &v
	}
}
