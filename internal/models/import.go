package models

// ImportPreview is the draft record produced by an import flow (URL scrape
// or certificate lookup) before the user confirms it.
type ImportPreview struct {
	Source     string   `json:"source"`
	SourceURL  string   `json:"source_url,omitempty"`
	CertNumber string   `json:"cert_number,omitempty"`
	Coin       Coin     `json:"coin"`
	Images     []string `json:"images,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// BackendVersion is the payload of the backend's version endpoint.
type BackendVersion struct {
	Version string `json:"version"`
}
