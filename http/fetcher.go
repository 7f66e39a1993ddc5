// Package http provides a net/http implementation of obras.Fetcher for the
// portal's server-rendered detail pages.
package http

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/obras"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = obras.DefaultFetchTimeout

// Ensure Fetcher implements obras.Fetcher at compile time.
var _ obras.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP GET requests.
type Fetcher struct {
	client             *http.Client
	timeout            time.Duration
	insecureSkipVerify bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (15s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// Verification is on unless this option is given with true.
func WithInsecureSkipVerify(skip bool) Option {
	return func(f *Fetcher) {
		f.insecureSkipVerify = skip
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if f.insecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	f.client = &http.Client{
		Timeout:   f.timeout,
		Transport: transport,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL.
// Any status other than 200 returns an EUNAVAILABLE error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", obras.Errorf(obras.EINVALID, "invalid request URL: %v", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", obras.Errorf(obras.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Close releases idle connections held by the client.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
