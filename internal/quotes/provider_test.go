package quotes

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vribeiro/investwatch/internal/domain"
	"go.uber.org/zap"
)

type fakeSource struct {
	prices map[string]string
	err    error
	calls  atomic.Int64
}

func (s *fakeSource) Fetch(ctx context.Context, symbol string) (domain.Quote, error) {
	s.calls.Add(1)
	if s.err != nil {
		return domain.Quote{}, s.err
	}
	price, ok := s.prices[symbol]
	if !ok {
		return domain.Quote{}, errors.New("unknown symbol")
	}
	p := decimal.RequireFromString(price)
	return domain.NewQuote(symbol, p, p, time.Now()), nil
}

func newTestProvider(primary, fallback Source) *Provider {
	return NewProvider(NewCache(30*time.Second), primary, fallback, 4, zap.NewNop())
}

func TestProviderFetchFromPrimary(t *testing.T) {
	primary := &fakeSource{prices: map[string]string{"PETR4": "35.50"}}
	fallback := &fakeSource{err: errors.New("should not be called")}
	provider := newTestProvider(primary, fallback)

	quote, err := provider.Fetch(context.Background(), "petr4")
	require.NoError(t, err)
	assert.Equal(t, "PETR4", quote.Symbol)
	assert.Equal(t, int64(0), fallback.calls.Load())
}

func TestProviderFallsBackOnPrimaryFailure(t *testing.T) {
	primary := &fakeSource{err: errors.New("network down")}
	fallback := &fakeSource{prices: map[string]string{"PETR4": "35.50"}}
	provider := newTestProvider(primary, fallback)

	quote, err := provider.Fetch(context.Background(), "PETR4")
	require.NoError(t, err)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("35.50")))
}

func TestProviderUnavailableWhenBothFail(t *testing.T) {
	primary := &fakeSource{err: errors.New("network down")}
	fallback := &fakeSource{err: errors.New("not in table")}
	provider := newTestProvider(primary, fallback)

	_, err := provider.Fetch(context.Background(), "XPTO9")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestProviderServesCacheWithoutSourceCall(t *testing.T) {
	primary := &fakeSource{prices: map[string]string{"PETR4": "35.50"}}
	provider := newTestProvider(primary, &fakeSource{})

	_, err := provider.Fetch(context.Background(), "PETR4")
	require.NoError(t, err)
	_, err = provider.Fetch(context.Background(), "PETR4")
	require.NoError(t, err)

	assert.Equal(t, int64(1), primary.calls.Load(), "second fetch must come from cache")
}

func TestProviderFetchManyCollectsOnlySuccesses(t *testing.T) {
	primary := &fakeSource{prices: map[string]string{
		"PETR4": "35.50",
		"VALE3": "68.20",
	}}
	fallback := &fakeSource{err: errors.New("not in table")}
	provider := newTestProvider(primary, fallback)

	results := provider.FetchMany(context.Background(), []string{"PETR4", "XPTO9", "vale3"})

	require.Len(t, results, 2)
	assert.Contains(t, results, "PETR4")
	assert.Contains(t, results, "VALE3")
	assert.NotContains(t, results, "XPTO9")
}

func TestProviderForceRefreshBypassesCache(t *testing.T) {
	primary := &fakeSource{prices: map[string]string{"PETR4": "35.50"}}
	provider := newTestProvider(primary, &fakeSource{})

	_, err := provider.Fetch(context.Background(), "PETR4")
	require.NoError(t, err)

	_, err = provider.ForceRefresh(context.Background(), "PETR4")
	require.NoError(t, err)

	assert.Equal(t, int64(2), primary.calls.Load())
}

func TestStaticSourceKnownSymbol(t *testing.T) {
	source := NewStaticSource()

	quote, err := source.Fetch(context.Background(), "petr4")
	require.NoError(t, err)
	assert.Equal(t, "PETR4", quote.Symbol)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("35.50")))
	assert.True(t, quote.Change.IsZero())
}

func TestStaticSourceUnknownSymbol(t *testing.T) {
	source := NewStaticSource()

	_, err := source.Fetch(context.Background(), "XPTO9")
	assert.Error(t, err)
}
