package goldspot

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

// DefaultURL is the gold-api.com gold quote endpoint (USD per troy ounce).
const DefaultURL = "https://api.gold-api.com/price/XAU"

// Client fetches a single-metal quote from gold-api.com.
type Client struct {
	httpClient *http.Client
	url        string
	debug      bool
}

// NewClient constructs a gold-api.com client.
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

// GetPrice returns the latest quote.
func (c *Client) GetPrice(ctx context.Context) (*PriceResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
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
			Msg("[GOLDSPOT] Incoming response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out PriceResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}
