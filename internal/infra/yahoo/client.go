package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vribeiro/investwatch/internal/domain"
	"go.uber.org/zap"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Client queries the Yahoo Finance chart endpoint. B3 tickers are suffixed
// with the region suffix (".SA") before the request.
type Client struct {
	baseURL      string
	regionSuffix string
	client       *http.Client
	logger       *zap.Logger
	now          func() time.Time
}

func NewClient(baseURL, regionSuffix string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		regionSuffix: regionSuffix,
		client:       &http.Client{Timeout: timeout},
		logger:       logger,
		now:          time.Now,
	}
}

func (c *Client) Fetch(ctx context.Context, symbol string) (domain.Quote, error) {
	key := domain.NormalizeSymbol(symbol)
	remote := key
	if c.regionSuffix != "" && !strings.HasSuffix(remote, c.regionSuffix) {
		remote += c.regionSuffix
	}

	endpoint := fmt.Sprintf("%s/%s?interval=1d&range=1d", c.baseURL, url.PathEscape(remote))
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Quote{}, err
	}
	request.Header.Set("User-Agent", userAgent)

	start := c.now()
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Warn("chart request failed", zap.String("symbol", remote), zap.Error(err))
		return domain.Quote{}, err
	}
	defer response.Body.Close()

	c.logger.Debug(
		"chart request complete",
		zap.String("symbol", remote),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return domain.Quote{}, fmt.Errorf("chart error: status %d", response.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return domain.Quote{}, fmt.Errorf("decode chart response: %w", err)
	}

	if payload.Chart.Error != nil {
		return domain.Quote{}, fmt.Errorf("chart error: %s", payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		// Happens when the market is closed and no trade data exists.
		return domain.Quote{}, fmt.Errorf("no chart result for %s", remote)
	}

	meta := payload.Chart.Result[0].Meta
	if meta.RegularMarketPrice == nil || meta.RegularMarketPrice.Sign() <= 0 {
		// A payload without a usable market price is a malformed response,
		// not a zero quote. Fail so the caller can fall back.
		return domain.Quote{}, fmt.Errorf("no market price in chart response for %s", remote)
	}
	price := *meta.RegularMarketPrice
	previousClose := price
	if meta.PreviousClose != nil {
		previousClose = *meta.PreviousClose
	} else {
		c.logger.Debug("previous close missing, using current price", zap.String("symbol", remote))
	}

	return domain.NewQuote(key, price, previousClose, c.now()), nil
}
