package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/isayev/coinstack-sub001/internal/filter"
	"github.com/isayev/coinstack-sub001/internal/models"
)

// ListCoins fetches one page of the listing for params. A page greater than
// zero overrides the page in params, which is how infinite scroll asks for
// the next page of the same query.
func (c *Client) ListCoins(ctx context.Context, params filter.Params, page int) (*models.CoinPage, error) {
	if page > 0 {
		params = params.WithPage(page)
	}
	var out models.CoinPage
	if err := c.do(ctx, "list_coins", http.MethodGet, "/api/coins", params.Values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCoin fetches a single coin.
func (c *Client) GetCoin(ctx context.Context, id int64) (*models.Coin, error) {
	var out models.Coin
	if err := c.do(ctx, "get_coin", http.MethodGet, fmt.Sprintf("/api/coins/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
