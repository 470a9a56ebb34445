package feed

import (
	"context"

	"github.com/isayev/coinstack-sub001/internal/filter"
	"github.com/isayev/coinstack-sub001/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockFetcher is a mock implementation of Fetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) ListCoins(ctx context.Context, params filter.Params, page int) (*models.CoinPage, error) {
	args := m.Called(ctx, params, page)
	p, _ := args.Get(0).(*models.CoinPage)
	return p, args.Error(1)
}
