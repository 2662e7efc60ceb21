// Package rates provides exchange-rate lookup for settlements recorded in a
// currency other than the group's ledger currency. The ledger engine never
// converts; conversion happens here, before a settlement is persisted.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Source returns the rate to convert one unit of `from` into `to`.
type Source interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

// Fixed is an in-memory Source with static rates, keyed "FROM/TO".
// Same-currency lookups always return 1.
type Fixed map[string]float64

// Rate implements Source.
func (f Fixed) Rate(_ context.Context, from, to string) (float64, error) {
	if from == to {
		return 1, nil
	}
	rate, ok := f[from+"/"+to]
	if !ok {
		return 0, fmt.Errorf("no rate for %s/%s", from, to)
	}
	return rate, nil
}

// Client fetches rates from a frankfurter-style JSON API:
// GET {base}/latest?from=EUR&to=USD -> {"rates": {"USD": 1.09}}.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Source = (*Client)(nil)

// NewClient creates a rate client for the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Rate implements Source.
func (c *Client) Rate(ctx context.Context, from, to string) (float64, error) {
	if from == to {
		return 1, nil
	}

	endpoint := fmt.Sprintf("%s/latest?from=%s&to=%s",
		c.baseURL, url.QueryEscape(from), url.QueryEscape(to))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rate lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate lookup failed: status %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode rate response: %w", err)
	}

	rate, ok := body.Rates[to]
	if !ok {
		return 0, fmt.Errorf("rate response missing %s", to)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("non-positive rate %v for %s/%s", rate, from, to)
	}
	return rate, nil
}
