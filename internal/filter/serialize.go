package filter

import (
	"net/url"
	"strconv"
)

// Query parameter names understood by the backend listing endpoint.
const (
	ParamSortBy          = "sort_by"
	ParamSortDir         = "sort_dir"
	ParamPage            = "page"
	ParamPerPage         = "per_page"
	ParamCategory        = "category"
	ParamSubCategory     = "sub_category"
	ParamMetal           = "metal"
	ParamIssuer          = "issuer"
	ParamRulerUnknown    = "is_ruler_unknown"
	ParamMintName        = "mint_name"
	ParamMintUnknown     = "is_mint_unknown"
	ParamDenomination    = "denomination"
	ParamGrade           = "grade"
	ParamRarity          = "rarity"
	ParamStorageLocation = "storage_location"
	ParamPriceGTE        = "acquisition_price_gte"
	ParamPriceLTE        = "acquisition_price_lte"
	ParamYearGTE         = "mint_year_gte"
	ParamYearLTE         = "mint_year_lte"
	ParamYearUnknown     = "is_year_unknown"
	ParamCirca           = "is_circa"
	ParamTestCut         = "is_test_cut"
)

// categoryAliases maps the short category names used in the UI to the
// backend's category enum. Unlisted values pass through unchanged.
var categoryAliases = map[string]string{
	"imperial":   "roman_imperial",
	"republic":   "roman_republic",
	"provincial": "roman_provincial",
}

// BackendCategory returns the backend spelling of a UI category value.
func BackendCategory(c string) string {
	if v, ok := categoryAliases[c]; ok {
		return v
	}
	return c
}

// Params is a flat set of query parameters.
type Params map[string]string

// Values converts p for use with net/url.
func (p Params) Values() url.Values {
	v := make(url.Values, len(p))
	for k, val := range p {
		v.Set(k, val)
	}
	return v
}

// Encode renders p as a query string with keys in sorted order.
func (p Params) Encode() string {
	return p.Values().Encode()
}

// WithPage returns a copy of p requesting page instead.
func (p Params) WithPage(page int) Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	out[ParamPage] = strconv.Itoa(page)
	return out
}

// Serialize maps s to backend query parameters. Sorting and pagination are
// always present; every filter is omitted while it is at its default.
func Serialize(s State) Params {
	p := Params{
		ParamSortBy:  string(s.SortBy),
		ParamSortDir: string(s.SortDir),
		ParamPage:    strconv.Itoa(s.Page),
		ParamPerPage: strconv.Itoa(s.PageSize.PerPage()),
	}

	setString(p, ParamCategory, BackendCategory(s.Category))
	setString(p, ParamSubCategory, s.SubCategory)
	setString(p, ParamMetal, s.Metal)
	setString(p, ParamDenomination, s.Denomination)
	setString(p, ParamGrade, s.Grade)
	setString(p, ParamRarity, s.Rarity)
	setString(p, ParamStorageLocation, s.StorageLocation)
	setString(p, ParamMintName, s.Mint)

	// The search box searches issuers, and wins over the explicit filter.
	if s.Search != "" {
		p[ParamIssuer] = s.Search
	} else {
		setString(p, ParamIssuer, s.IssuingAuthority)
	}

	setBool(p, ParamRulerUnknown, s.RulerUnknown)
	setBool(p, ParamMintUnknown, s.MintUnknown)
	setBool(p, ParamYearUnknown, s.YearUnknown)
	setBool(p, ParamCirca, s.Circa)
	setBool(p, ParamTestCut, s.TestCut)

	if s.PriceRange.Min != DefaultPriceRange.Min {
		p[ParamPriceGTE] = strconv.FormatFloat(s.PriceRange.Min, 'f', -1, 64)
	}
	if s.PriceRange.Max != DefaultPriceRange.Max {
		p[ParamPriceLTE] = strconv.FormatFloat(s.PriceRange.Max, 'f', -1, 64)
	}

	setInt(p, ParamYearGTE, s.YearMin)
	setInt(p, ParamYearLTE, s.YearMax)
	return p
}

// CountActiveFilters is the number of filter dimensions that differ from the
// default. Both price bounds together count once. It is derived from
// Serialize so the badge and the request cannot disagree.
func CountActiveFilters(s State) int {
	p := Serialize(s)
	n := 0
	for k := range p {
		switch k {
		case ParamSortBy, ParamSortDir, ParamPage, ParamPerPage, ParamPriceGTE, ParamPriceLTE:
		default:
			n++
		}
	}
	_, gte := p[ParamPriceGTE]
	_, lte := p[ParamPriceLTE]
	if gte || lte {
		n++
	}
	return n
}

func setString(p Params, key, v string) {
	if v != "" {
		p[key] = v
	}
}

func setBool(p Params, key string, v *bool) {
	if v != nil {
		p[key] = strconv.FormatBool(*v)
	}
}

func setInt(p Params, key string, v *int) {
	if v != nil {
		p[key] = strconv.Itoa(*v)
	}
}
