// This file defines the core data structures (models) exchanged with the
// collection backend. The backend owns these records; this service only
// relays them.

package models

import "time"

// Coin is one collection record as returned by the listing endpoint.
type Coin struct {
	ID               int64      `json:"id"`
	Category         string     `json:"category"`
	SubCategory      string     `json:"sub_category,omitempty"`
	Denomination     string     `json:"denomination"`
	Metal            string     `json:"metal"`
	IssuingAuthority string     `json:"issuing_authority"`
	MintName         string     `json:"mint_name,omitempty"`
	MintYearStart    *int       `json:"mint_year_start,omitempty"`
	MintYearEnd      *int       `json:"mint_year_end,omitempty"`
	IsCirca          bool       `json:"is_circa"`
	IsTestCut        bool       `json:"is_test_cut"`
	Grade            string     `json:"grade,omitempty"`
	Rarity           string     `json:"rarity,omitempty"`
	WeightG          *float64   `json:"weight_g,omitempty"`
	DiameterMM       *float64   `json:"diameter_mm,omitempty"`
	AcquisitionPrice *float64   `json:"acquisition_price,omitempty"`
	AcquisitionDate  *time.Time `json:"acquisition_date,omitempty"`
	StorageLocation  string     `json:"storage_location,omitempty"`
	PrimaryImage     string     `json:"primary_image,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CoinPage is one page of the paginated listing response.
type CoinPage struct {
	Items   []Coin `json:"items"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Total   int    `json:"total"`
	Pages   int    `json:"pages"`
}

// HasNext reports whether the backend has a page after this one.
func (p *CoinPage) HasNext() bool {
	return p.Page < p.Pages
}
