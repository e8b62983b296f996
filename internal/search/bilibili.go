// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the video platform's search API and narrows the
// results down to usable download candidates.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/songgrab/internal/httputil"
	"github.com/pdiddy/songgrab/pkg/types"
)

// defaultDurationText stands in for items that carry no duration.
const defaultDurationText = "0:00"

// codeMissing is reported when a response has no code field at all. Only an
// explicit zero counts as success.
const codeMissing = -1

// APIError reports a search response whose code field is non-zero or absent.
// The request itself succeeded; the platform refused or could not serve it.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "Unknown error"
	}
	return fmt.Sprintf("API error %d: %s", e.Code, msg)
}

// IsAPIError reports whether err carries an *APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// Client searches Bilibili videos over a shared cookie session.
type Client struct {
	http    *http.Client
	cfg     types.SearchConfig
	headers map[string]string
	log     io.Writer
}

// NewClient builds a search client. The HTTP client should carry a cookie
// jar (see httputil.NewSessionClient) so the warm-up cookies reach the API.
// Retry notices are written to log; nil discards them.
func NewClient(client *http.Client, httpCfg types.HTTPConfig, cfg types.SearchConfig, log io.Writer) *Client {
	if log == nil {
		log = io.Discard
	}
	return &Client{
		http:    client,
		cfg:     cfg,
		headers: httpCfg.Headers(),
		log:     log,
	}
}

// WarmUp fetches the site homepage once so the session picks up the cookies
// the search API expects. Callers log and ignore the error.
func (c *Client) WarmUp(ctx context.Context) error {
	if c.cfg.Homepage == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Homepage, nil)
	if err != nil {
		return fmt.Errorf("creating warm-up request: %w", err)
	}
	httputil.ApplyHeaders(req, c.headers)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetching homepage cookies: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("homepage returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// Search issues one video search and maps the results to candidates. Items
// without a video URL are dropped. Transport failures, non-2xx statuses,
// undecodable bodies, and non-zero API codes are all returned as errors;
// callers treat them the same as an empty result.
func (c *Client) Search(ctx context.Context, query string, page, pageSize int) ([]types.Candidate, error) {
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if page < 1 {
		return nil, fmt.Errorf("page must be >= 1, got %d", page)
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("page size must be >= 1, got %d", pageSize)
	}

	params := url.Values{
		"search_type": {"video"},
		"keyword":     {query},
		"page":        {strconv.Itoa(page)},
		"page_size":   {strconv.Itoa(pageSize)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httputil.ApplyHeaders(req, c.headers)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, httputil.RetryPolicy{
		MaxRetries: c.cfg.MaxRetries,
		BaseDelay:  c.cfg.RetryBaseDelay,
		Log:        c.log,
	})
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("search API returned HTTP %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}
	if sr.Code == nil {
		return nil, &APIError{Code: codeMissing, Message: "response carried no status code"}
	}
	if *sr.Code != 0 {
		return nil, &APIError{Code: *sr.Code, Message: sr.Message}
	}

	candidates := make([]types.Candidate, 0, len(sr.Data.Result))
	for _, item := range sr.Data.Result {
		if item.ArcURL == "" {
			continue
		}
		durationText := item.Duration
		if durationText == "" {
			durationText = defaultDurationText
		}
		candidates = append(candidates, types.Candidate{
			Title:           item.Title,
			URL:             item.ArcURL,
			DurationSeconds: ParseDuration(durationText),
		})
	}
	return candidates, nil
}

// Bilibili search API JSON structures.
type searchResponse struct {
	Code    *int       `json:"code"`
	Message string     `json:"message"`
	Data    searchData `json:"data"`
}

type searchData struct {
	Result []searchItem `json:"result"`
}

type searchItem struct {
	Title    string `json:"title"`
	ArcURL   string `json:"arcurl"`
	Duration string `json:"duration"`
}
