package yahoo

import "github.com/shopspring/decimal"

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta      chartMeta `json:"meta"`
	Timestamp []int64   `json:"timestamp"`
}

type chartMeta struct {
	Symbol             string           `json:"symbol"`
	Currency           string           `json:"currency"`
	RegularMarketPrice *decimal.Decimal `json:"regularMarketPrice"`
	PreviousClose      *decimal.Decimal `json:"previousClose"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
