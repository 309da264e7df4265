// Package http provides HTTP-based implementations of pars.Fetcher: direct
// requests and requests through public CORS relays.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/IDGORRU/pars"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for one fetch attempt.
const DefaultFetchTimeout = 10 * time.Second

// MaxBodySize caps how much of a response body is read.
const MaxBodySize = 10 << 20

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

// ErrEmptyBody is returned when a response carries no content.
var ErrEmptyBody = errors.New("empty response body")

// Ensure Fetcher implements pars.Fetcher at compile time.
var _ pars.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves markup with a single GET request, either directly or
// through a Relay. It does not execute JavaScript.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	transport http.RoundTripper
	proxy     *url.URL
	chromeTLS bool
	relay     *Relay
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for one request.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRelay routes requests through a CORS relay.
func WithRelay(r Relay) Option {
	return func(f *Fetcher) {
		f.relay = &r
	}
}

// WithProxy sends requests through an HTTP proxy.
func WithProxy(u *url.URL) Option {
	return func(f *Fetcher) {
		f.proxy = u
	}
}

// WithTransport overrides the round tripper. Proxy and TLS options are
// ignored when a transport is supplied.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.transport = rt
	}
}

// WithChromeTLS presents a Chrome TLS fingerprint on direct connections.
func WithChromeTLS() Option {
	return func(f *Fetcher) {
		f.chromeTLS = true
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	transport := f.transport
	if transport == nil {
		transport = f.newTransport()
	}

	f.client = &http.Client{
		Timeout:   f.timeout,
		Transport: transport,
	}

	return f
}

func (f *Fetcher) newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if f.proxy != nil {
		t.Proxy = http.ProxyURL(f.proxy)
	}
	if f.chromeTLS {
		t.DialTLSContext = dialTLSChrome(f.timeout)
		t.ForceAttemptHTTP2 = false
	}
	return t
}

// Fetch retrieves the markup at target.
func (f *Fetcher) Fetch(ctx context.Context, target string) (string, error) {
	reqURL := target
	if f.relay != nil {
		reqURL = f.relay.URL(target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,ru;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
	}

	var body string
	if f.relay != nil && f.relay.Envelope {
		raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
		if err != nil {
			return "", err
		}
		if body, err = f.relay.Unwrap(raw); err != nil {
			return "", err
		}
	} else {
		r, err := charset.NewReader(io.LimitReader(resp.Body, MaxBodySize), resp.Header.Get("Content-Type"))
		if err != nil {
			return "", fmt.Errorf("decode body: %w", err)
		}
		raw, err := io.ReadAll(r)
		if err != nil {
			return "", err
		}
		body = string(raw)
	}

	if strings.TrimSpace(body) == "" {
		return "", fmt.Errorf("%w from %s", ErrEmptyBody, target)
	}
	return body, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// ParseProxy parses a user-supplied proxy address. A bare "host:port" is
// treated as an http proxy.
func ParseProxy(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, pars.Errorf(pars.EINVALID, "proxy address required")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, pars.Errorf(pars.EINVALID, "invalid proxy address %q", raw)
	}
	return u, nil
}
