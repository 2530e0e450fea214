// Package wallapop is a small client for the public Wallapop search API.
package wallapop

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL    = "https://api.wallapop.com"
	DefaultWebBaseURL = "https://es.wallapop.com"

	searchPath  = "/api/v3/search"
	reviewsPath = "/api/v3/users/{userId}/reviews"
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // Requests per second; zero disables limiting
}

// Client handles the Wallapop search and reviews endpoints.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
}

// NewClient creates a new client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	rc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeaders(map[string]string{
			"Accept":          "application/json, text/plain, */*",
			"Accept-Language": "es,en;q=0.9",
			"Connection":      "keep-alive",
			"DeviceOS":        "0",
			"Origin":          "https://es.wallapop.com",
			"Referer":         "https://es.wallapop.com/",
			"Sec-Fetch-Dest":  "empty",
			"Sec-Fetch-Mode":  "cors",
			"Sec-Fetch-Site":  "same-site",
			"X-AppVersion":    "75491",
			"X-DeviceOS":      "0",
		})

	return &Client{http: rc, limiter: limiter}
}

// Search runs one search query and returns the listings of the first page.
// Any non-2xx response is returned as an error.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Listing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("User-Agent", randomUserAgent()).
		SetQueryParamsFromValues(BuildQuery(params)).
		Get(searchPath)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("search failed: %d - %s", res.StatusCode(), res.String())
	}

	var result searchResponse
	if err := json.Unmarshal(res.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return result.Data.Section.Payload.Items, nil
}
