package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/bidsum/internal/domain"
)

// RatesClient fetches USD exchange rates from an open exchange-rate API.
type RatesClient struct {
	baseURL    string
	httpClient *http.Client
	delay      time.Duration
	maxRetries int
}

// NewRatesClient creates a new exchange-rate API client.
func NewRatesClient(baseURL string, delay time.Duration, maxRetries int) *RatesClient {
	return &RatesClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		delay:      delay,
		maxRetries: maxRetries,
	}
}

type latestResponse struct {
	Result   string                     `json:"result"`
	BaseCode string                     `json:"base_code"`
	Rates    map[string]decimal.Decimal `json:"rates"`
}

// FetchRates returns units of each currency per one US dollar.
func (c *RatesClient) FetchRates(ctx context.Context) (map[domain.Currency]decimal.Decimal, error) {
	url := fmt.Sprintf("%s/latest/%s", c.baseURL, domain.CurrencyUSD)

	body, err := c.fetchWithRetry(ctx, url)
	if err != nil {
		return nil, err
	}

	// Parse: {"result":"success","base_code":"USD","rates":{"EUR":0.92,...}}
	var raw latestResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing rates response: %w", err)
	}
	if raw.Result != "" && raw.Result != "success" {
		return nil, fmt.Errorf("rates API result %q", raw.Result)
	}
	if raw.BaseCode != "" {
		if base, err := domain.ParseCurrency(raw.BaseCode); err != nil || base != domain.CurrencyUSD {
			return nil, fmt.Errorf("rates API base %s, want USD", raw.BaseCode)
		}
	}

	result := make(map[domain.Currency]decimal.Decimal, len(raw.Rates))
	for code, rate := range raw.Rates {
		if !rate.IsPositive() {
			continue
		}
		// The API also quotes territorial currencies (FOK, GGP, ...) that are not ISO 4217.
		cur, err := domain.ParseCurrency(code)
		if err != nil || cur.IsNone() {
			continue
		}
		result[cur] = rate
	}

	return result, nil
}

func (c *RatesClient) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := range c.maxRetries + 1 {
		if attempt > 0 {
			baseDelay := c.delay
			if baseDelay == 0 {
				baseDelay = 10 * time.Second
			}
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating rates request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("rates request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading rates response: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rates API rate limited (attempt %d/%d)", attempt+1, c.maxRetries+1)
			continue
		}

		return nil, fmt.Errorf("rates API HTTP %d: %s", resp.StatusCode, string(body))
	}

	return nil, lastErr
}
