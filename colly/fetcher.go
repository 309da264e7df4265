// Package colly implements pars.Fetcher with the colly scraping framework.
// It backs the fallback pipeline that runs after the relay chain is
// exhausted.
package colly

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/IDGORRU/pars"
	"github.com/gocolly/colly/v2"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 15 * time.Second

// MaxBodySize caps how much of a response body is read.
const MaxBodySize = 10 << 20

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

// Ensure Fetcher implements pars.Fetcher at compile time.
var _ pars.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages with a fresh colly collector per request.
type Fetcher struct {
	timeout   time.Duration
	userAgent string
	transport http.RoundTripper
	proxy     *url.URL
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithTransport overrides the round tripper. WithProxy is ignored when a
// transport is supplied.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.transport = rt
	}
}

// WithProxy sends requests through an HTTP proxy.
func WithProxy(u *url.URL) Option {
	return func(f *Fetcher) {
		f.proxy = u
	}
}

// NewFetcher creates a new colly-backed Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.transport == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		if f.proxy != nil {
			t.Proxy = http.ProxyURL(f.proxy)
		}
		f.transport = t
	}
	return f
}

// Fetch retrieves the markup at target.
func (f *Fetcher) Fetch(ctx context.Context, target string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.AllowURLRevisit(),
		colly.MaxBodySize(MaxBodySize),
	)
	c.SetRequestTimeout(f.timeout)
	// colly has no context support; bind the request to ctx in the transport.
	c.WithTransport(&contextTransport{ctx: ctx, base: f.transport})

	var (
		status int
		body   []byte
	)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9,ru;q=0.8")
	})
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	err := c.Visit(target)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if status != 0 && (status < 200 || status > 299) {
		return "", fmt.Errorf("HTTP %d for %s", status, target)
	}
	if err != nil {
		return "", fmt.Errorf("visit %s: %w", target, err)
	}
	if strings.TrimSpace(string(body)) == "" {
		return "", fmt.Errorf("empty response body from %s", target)
	}
	return string(body), nil
}

// Close releases idle connections of the default transport.
func (f *Fetcher) Close() error {
	if t, ok := f.transport.(interface{ CloseIdleConnections() }); ok {
		t.CloseIdleConnections()
	}
	return nil
}

// contextTransport cancels requests when ctx is done while keeping the
// deadline the HTTP client sets on the request.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithCancel(req.Context())
	stop := context.AfterFunc(t.ctx, cancel)
	release := func() {
		stop()
		cancel()
	}
	resp, err := t.base.RoundTrip(req.WithContext(ctx))
	if err != nil {
		release()
		return nil, err
	}
	resp.Body = &releasingBody{ReadCloser: resp.Body, release: release}
	return resp, nil
}

// releasingBody drops the cancellation hook of a request once its body is
// closed.
type releasingBody struct {
	io.ReadCloser
	release func()
}

func (b *releasingBody) Close() error {
	err := b.ReadCloser.Close()
	b.release()
	return err
}
