package metalslive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultURL is the metals.live spot endpoint (USD per troy ounce).
const DefaultURL = "https://api.metals.live/v1/spot"

// Client fetches spot prices from metals.live.
type Client struct {
	httpClient *http.Client
	url        string
	debug      bool
}

// NewClient constructs a metals.live client.
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

// GetSpot returns spot prices keyed by lower-case metal name.
func (c *Client) GetSpot(ctx context.Context) (SpotPrices, error) {
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
			Msg("[METALSLIVE] Incoming response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return ParseSpot(body)
}
