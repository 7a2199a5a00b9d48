package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://places.googleapis.com/v1"

// searchFieldMask limits the response to the fields the ingestion pipeline
// and photo proxy actually consume. The v1 API rejects requests without one.
const searchFieldMask = "places.id,places.displayName,places.types,places.primaryType,places.formattedAddress,places.location,places.rating,places.userRatingCount,places.priceLevel,places.photos,nextPageToken"

// Client is a thin typed wrapper over the Google Places API (New).
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// APIKeyConfigured reports whether a key was supplied. Callers that cannot
// work without one (the seed binary, the photo proxy) check this up front.
func (c *Client) APIKeyConfigured() bool {
	return c.apiKey != ""
}

// SearchText runs one page of a text search. The caller follows
// NextPageToken for subsequent pages.
func (c *Client) SearchText(ctx context.Context, req TextSearchRequest) (*SearchResponse, error) {
	return c.search(ctx, c.baseURL+"/places:searchText", req)
}

// SearchNearby runs one nearby search around a circular restriction.
func (c *Client) SearchNearby(ctx context.Context, req NearbySearchRequest) (*SearchResponse, error) {
	return c.search(ctx, c.baseURL+"/places:searchNearby", req)
}

func (c *Client) search(ctx context.Context, endpoint string, body any) (*SearchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", searchFieldMask)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("places search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Read a bounded slice of the body for the log line only; the
		// caller just needs a non-nil error to skip this phrase/tile.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.ErrorContext(ctx, "Places API returned non-OK status",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(snippet)),
		)
		return nil, fmt.Errorf("places search returned status %d", resp.StatusCode)
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode places search response: %w", err)
	}

	return &searchResp, nil
}

// PhotoMediaURL builds the upstream media URL for an opaque photo resource
// name. The key is appended server-side so it never reaches the browser
// except through the resulting redirect target.
func (c *Client) PhotoMediaURL(name string, heightPx int) string {
	if heightPx <= 0 {
		heightPx = 400
	}
	q := url.Values{}
	q.Set("maxHeightPx", fmt.Sprintf("%d", heightPx))
	q.Set("key", c.apiKey)
	return fmt.Sprintf("%s/%s/media?%s", c.baseURL, strings.TrimLeft(name, "/"), q.Encode())
}
