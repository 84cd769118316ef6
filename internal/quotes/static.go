package quotes

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vribeiro/investwatch/internal/domain"
)

// StaticSource is the offline last-resort source: a fixed table of known B3
// tickers. Quotes from it carry no change information.
type StaticSource struct {
	prices map[string]decimal.Decimal
	now    func() time.Time
}

func NewStaticSource() *StaticSource {
	table := map[string]string{
		"PETR4": "35.50",
		"VALE3": "68.20",
		"ITUB4": "32.15",
		"BBDC4": "15.80",
		"ABEV3": "12.45",
		"WEGE3": "38.90",
		"RENT3": "45.60",
		"LREN3": "18.75",
		"MGLU3": "2.85",
		"JBSS3": "22.40",
	}
	prices := make(map[string]decimal.Decimal, len(table))
	for symbol, value := range table {
		prices[symbol] = decimal.RequireFromString(value)
	}
	return &StaticSource{prices: prices, now: time.Now}
}

func (s *StaticSource) Fetch(ctx context.Context, symbol string) (domain.Quote, error) {
	key := domain.NormalizeSymbol(symbol)
	price, ok := s.prices[key]
	if !ok {
		return domain.Quote{}, fmt.Errorf("symbol %s not in static table", key)
	}
	return domain.NewQuote(key, price, price, s.now()), nil
}
