// Package feed pages through the listing for one query at a time and keeps
// the accumulated items for infinite scroll.
package feed

import (
	"context"
	"errors"
	"sync"

	"github.com/isayev/coinstack-sub001/internal/filter"
	"github.com/isayev/coinstack-sub001/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrInFlight is returned by LoadMore while a page is already loading.
	ErrInFlight = errors.New("feed: a page is already loading")
	// ErrNoMorePages is returned by LoadMore once the last page was loaded.
	ErrNoMorePages = errors.New("feed: no more pages")
	// ErrSuperseded is returned when a Reset replaced the query before the
	// response arrived. The response is dropped.
	ErrSuperseded = errors.New("feed: superseded by a newer query")
)

// Fetcher loads one page of the listing. *client.Client satisfies it.
type Fetcher interface {
	ListCoins(ctx context.Context, params filter.Params, page int) (*models.CoinPage, error)
}

// Snapshot is the externally visible state of a Feed.
type Snapshot struct {
	Items   []models.Coin `json:"items"`
	Page    int           `json:"page"`
	Total   int           `json:"total"`
	HasMore bool          `json:"has_more"`
	Loading bool          `json:"loading"`
	Query   filter.Params `json:"query"`
}

type Feed struct {
	fetcher Fetcher
	log     *zap.Logger

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	params  filter.Params
	items   []models.Coin
	page    int
	total   int
	hasMore bool
	loading bool
}

func New(fetcher Fetcher, log *zap.Logger) *Feed {
	if log == nil {
		log = zap.NewNop()
	}
	return &Feed{fetcher: fetcher, log: log}
}

// Reset drops everything loaded so far and fetches page 1 of params. Any
// fetch still running for the previous query is cancelled and its result
// discarded, so the latest query always wins.
func (f *Feed) Reset(ctx context.Context, params filter.Params) (Snapshot, error) {
	f.mu.Lock()
	f.gen++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.params = params
	f.items = nil
	f.page = 0
	f.total = 0
	f.hasMore = true
	f.loading = false
	return f.fetchLocked(ctx, 1)
}

// LoadMore appends the next page of the current query.
func (f *Feed) LoadMore(ctx context.Context) (Snapshot, error) {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return f.Snapshot(), ErrInFlight
	}
	if !f.hasMore || f.params == nil {
		f.mu.Unlock()
		return f.Snapshot(), ErrNoMorePages
	}
	return f.fetchLocked(ctx, f.page+1)
}

// fetchLocked must be called with f.mu held; it releases the lock while the
// request is outstanding.
func (f *Feed) fetchLocked(ctx context.Context, page int) (Snapshot, error) {
	gen := f.gen
	params := f.params
	cctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.loading = true
	f.mu.Unlock()

	result, err := f.fetcher.ListCoins(cctx, params, page)

	f.mu.Lock()
	if f.gen != gen {
		f.mu.Unlock()
		cancel()
		f.log.Debug("Dropping stale listing response", zap.Int("page", page))
		return f.Snapshot(), ErrSuperseded
	}
	f.cancel = nil
	f.loading = false
	cancel()
	if err != nil {
		f.mu.Unlock()
		return f.Snapshot(), err
	}
	f.items = append(f.items, result.Items...)
	f.page = page
	f.total = result.Total
	f.hasMore = result.HasNext()
	f.mu.Unlock()
	return f.Snapshot(), nil
}

func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]models.Coin, len(f.items))
	copy(items, f.items)
	return Snapshot{
		Items:   items,
		Page:    f.page,
		Total:   f.total,
		HasMore: f.hasMore,
		Loading: f.loading,
		Query:   f.params,
	}
}
