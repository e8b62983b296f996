// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// NewSessionClient returns an HTTP client with a cookie jar so cookies set by
// one response (the homepage warm-up) are sent on later requests to the same
// site. The client is meant to be reused sequentially for the whole run.
func NewSessionClient(timeout time.Duration) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &http.Client{
		Timeout: timeout,
		Jar:     jar,
	}, nil
}

// ApplyHeaders sets every header in headers on req, replacing existing values.
func ApplyHeaders(req *http.Request, headers map[string]string) {
	for name, value := range headers {
		req.Header.Set(name, value)
	}
}

// SetCookie installs a cookie for siteURL in the client's jar, scoped to the
// site's domain without a leading "www." so sibling hosts (the API host) see
// it too. It is a no-op for clients without a jar.
func SetCookie(client *http.Client, siteURL, name, value string) error {
	if client.Jar == nil {
		return nil
	}
	u, err := url.Parse(siteURL)
	if err != nil {
		return fmt.Errorf("parsing site URL %q: %w", siteURL, err)
	}
	client.Jar.SetCookies(u, []*http.Cookie{{
		Name:   name,
		Value:  value,
		Path:   "/",
		Domain: strings.TrimPrefix(u.Hostname(), "www."),
	}})
	return nil
}
