// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP session and retry helpers used to talk
// to the video platform.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultRetryBaseDelay is used when a RetryPolicy leaves BaseDelay unset.
const DefaultRetryBaseDelay = 2 * time.Second

// RetryPolicy controls how DoWithRetry reacts to HTTP 429 responses.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt. Zero
	// disables retrying.
	MaxRetries int

	// BaseDelay is the first backoff; it doubles on each further retry.
	BaseDelay time.Duration

	// Log receives one line per backoff. Nil discards them.
	Log io.Writer
}

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests) with exponential backoff: BaseDelay, 2*BaseDelay, 4*BaseDelay...
//
// On each 429 the response body is drained and closed before sleeping. If
// the context is cancelled during a backoff wait the function returns
// ctx.Err(). After exhausting retries the last 429 response is returned so
// the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, policy RetryPolicy) (*http.Response, error) {
	base := policy.BaseDelay
	if base <= 0 {
		base = DefaultRetryBaseDelay
	}
	log := policy.Log
	if log == nil {
		log = io.Discard
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		if attempt >= policy.MaxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := base << attempt
		fmt.Fprintf(log, "rate limited, retrying in %v (attempt %d/%d)\n", backoff, attempt+1, policy.MaxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
