package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Quote is a price observation for a symbol at a point in time. It is an
// immutable value; later fetches supersede it, they never mutate it.
type Quote struct {
	Symbol        string
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
	ObservedAt    time.Time
}

// NewQuote derives change and changePercent from the previous reference
// price. A previous reference <= 0 yields a zero changePercent.
func NewQuote(symbol string, price, previousClose decimal.Decimal, observedAt time.Time) Quote {
	change := price.Sub(previousClose)
	changePercent := decimal.Zero
	if previousClose.Sign() > 0 {
		changePercent = change.Div(previousClose).Mul(oneHundred)
	}
	return Quote{
		Symbol:        NormalizeSymbol(symbol),
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
		ObservedAt:    observedAt,
	}
}

// NormalizeSymbol is the canonical form used as cache and store key.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
