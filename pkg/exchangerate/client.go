package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultURL is the open.er-api.com latest rates endpoint for USD.
const DefaultURL = "https://open.er-api.com/v6/latest/USD"

// Client looks up currency exchange rates.
type Client struct {
	httpClient *http.Client
	url        string
	debug      bool
}

// NewClient constructs an exchange rate client.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		debug:      os.Getenv("ENV") == "development",
	}
}

// GetRate returns how many units of quote one unit of the feed's base buys.
func (c *Client) GetRate(ctx context.Context, quote string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", c.url).
			Int("status_code", resp.StatusCode).
			Msg("[FX] Incoming response")
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out LatestResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if out.Result != "" && out.Result != "success" {
		return 0, fmt.Errorf("fx lookup returned %q", out.Result)
	}
	rate, ok := out.Rates[strings.ToUpper(quote)]
	if !ok {
		return 0, fmt.Errorf("fx rate for %s missing", quote)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("fx rate for %s is not positive", quote)
	}
	return rate, nil
}
