// Package productfeed fetches raw product records from a remote JSON feed.
package productfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ecotoken_store/internal/models"
)

// maxBodyBytes bounds how much of a feed response is read.
const maxBodyBytes = 32 << 20

// FeedResponse is the envelope served by the product feed.
type FeedResponse struct {
	Data []models.RawProduct `json:"data"`
}

// FetchError reports a failed feed fetch. No records accompany it.
type FetchError struct {
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("product feed returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("product feed fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client is a minimal HTTP client for the product feed.
type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
	debug      bool
}

// NewClient constructs a feed client with sane defaults.
func NewClient(url, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		url:        url,
		apiKey:     apiKey,
		debug:      os.Getenv("ENV") == "development",
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// FetchAll downloads the whole feed. Either every record decodes or a
// *FetchError is returned with no records.
func (c *Client) FetchAll(ctx context.Context) ([]models.RawProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if c.debug {
		log.Debug().
			Str("url", c.url).
			Int("status_code", resp.StatusCode).
			Int("bytes", len(body)).
			Dur("latency", time.Since(start)).
			Msg("[FEED] Incoming response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status")}
	}

	var feed FeedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return feed.Data, nil
}
