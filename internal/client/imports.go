package client

import (
	"context"
	"net/http"

	"github.com/isayev/coinstack-sub001/internal/models"
)

// ScrapeURL asks the backend to build an import preview from an auction or
// dealer listing URL.
func (c *Client) ScrapeURL(ctx context.Context, listingURL string) (*models.ImportPreview, error) {
	var out models.ImportPreview
	body := map[string]string{"url": listingURL}
	if err := c.do(ctx, "import_url", http.MethodPost, "/api/import/url", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LookupNGC asks the backend to build an import preview from an NGC
// certificate number.
func (c *Client) LookupNGC(ctx context.Context, certNumber string) (*models.ImportPreview, error) {
	var out models.ImportPreview
	body := map[string]string{"cert_number": certNumber}
	if err := c.do(ctx, "import_ngc", http.MethodPost, "/api/import/ngc", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
