package goldprice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultURL returns XAU/XAG spot quotes in USD per troy ounce.
const DefaultURL = "https://data-asg.goldprice.org/dbXRates/USD"

// Client fetches the public goldprice.org rates feed.
type Client struct {
	httpClient *http.Client
	url        string
	debug      bool
}

// NewClient constructs a goldprice.org client.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		debug:      os.Getenv("ENV") == "development",
	}
}

// GetRates returns the first quote item of the feed.
func (c *Client) GetRates(ctx context.Context) (*RateItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// The feed rejects requests without a browser-like user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; gtd-jewel/1.0)")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", c.url).
			Int("status_code", resp.StatusCode).
			Str("response", string(body)).
			Msg("[GOLDPRICE] Incoming response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out RatesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("response has no items")
	}
	return &out.Items[0], nil
}
