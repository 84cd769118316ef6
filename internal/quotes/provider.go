package quotes

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vribeiro/investwatch/internal/domain"
	"go.uber.org/zap"
)

// ErrUnavailable means no source could produce a quote this time. Callers
// treat it as "no data this cycle", not as fatal.
var ErrUnavailable = errors.New("quote unavailable")

const DefaultMaxConcurrent = 20

// Source produces a current quote for a symbol.
type Source interface {
	Fetch(ctx context.Context, symbol string) (domain.Quote, error)
}

// Provider resolves quotes through the cache, then the primary remote
// source, then the fallback source. Whichever source succeeds populates the
// cache before the quote is returned.
type Provider struct {
	cache         *Cache
	primary       Source
	fallback      Source
	maxConcurrent int
	logger        *zap.Logger
}

func NewProvider(cache *Cache, primary, fallback Source, maxConcurrent int, logger *zap.Logger) *Provider {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Provider{
		cache:         cache,
		primary:       primary,
		fallback:      fallback,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

func (p *Provider) Fetch(ctx context.Context, symbol string) (domain.Quote, error) {
	key := domain.NormalizeSymbol(symbol)

	if quote, ok := p.cache.Get(key); ok {
		p.logger.Debug("quote cache hit", zap.String("symbol", key))
		return quote, nil
	}

	quote, err := p.primary.Fetch(ctx, key)
	if err != nil {
		p.logger.Warn("primary quote source failed, trying fallback", zap.String("symbol", key), zap.Error(err))
		quote, err = p.fallback.Fetch(ctx, key)
		if err != nil {
			p.logger.Warn("fallback quote source failed", zap.String("symbol", key), zap.Error(err))
			return domain.Quote{}, fmt.Errorf("%w: %s", ErrUnavailable, key)
		}
	}

	p.cache.Put(key, quote)
	return quote, nil
}

// FetchMany fetches the given symbols concurrently, bounded by the
// configured fan-out cap, and returns only the successes keyed by uppercase
// symbol. Failed symbols are skipped silently.
func (p *Provider) FetchMany(ctx context.Context, symbols []string) map[string]domain.Quote {
	results := make(map[string]domain.Quote, len(symbols))

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, p.maxConcurrent)
	)

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			quote, err := p.Fetch(ctx, symbol)
			if err != nil {
				return
			}

			mu.Lock()
			results[quote.Symbol] = quote
			mu.Unlock()
		}(symbol)
	}

	wg.Wait()
	return results
}

// ForceRefresh drops any cached entry for the symbol and fetches again.
func (p *Provider) ForceRefresh(ctx context.Context, symbol string) (domain.Quote, error) {
	p.cache.Invalidate(symbol)
	return p.Fetch(ctx, symbol)
}
