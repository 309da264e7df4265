// Package rod implements pars.Fetcher with a headless Chrome browser. It
// serves as an optional fallback for pages that only render their content
// with JavaScript.
package rod

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/IDGORRU/pars"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// DefaultFetchTimeout bounds one page render.
const DefaultFetchTimeout = 30 * time.Second

var errClosed = pars.Errorf(pars.EINVALID, "browser fetcher is closed")

// Ensure Fetcher implements pars.Fetcher at compile time.
var _ pars.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	pool     *browserPool
	timeout  time.Duration
	proxy    *url.URL
	maxPages int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout for one page render.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithProxy launches the browser behind an HTTP proxy.
func WithProxy(u *url.URL) Option {
	return func(f *Fetcher) {
		f.proxy = u
	}
}

// WithMaxPages sets how many pages are rendered before the browser is
// relaunched. Zero disables relaunching.
func WithMaxPages(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called when
// the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	var proxy string
	if f.proxy != nil {
		proxy = f.proxy.Host
	}
	pool, err := newBrowserPool(proxy, f.maxPages)
	if err != nil {
		return nil, err
	}
	f.pool = pool
	return f, nil
}

// Fetch navigates to the URL with automation markers masked and returns the
// rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, target string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := f.pool.acquire()
	if err != nil {
		return "", err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		return "", fmt.Errorf("injecting stealth script: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	p := page.Context(ctx)

	if err := p.Navigate(target); err != nil {
		return "", contextErr(ctx, err)
	}
	if err := p.WaitLoad(); err != nil {
		return "", contextErr(ctx, err)
	}

	html, err := p.HTML()
	if err != nil {
		return "", contextErr(ctx, err)
	}
	if strings.TrimSpace(html) == "" {
		return "", fmt.Errorf("empty document from %s", target)
	}
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.pool.close()
}

// contextErr prefers the context error so callers can match it with
// errors.Is.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%w: %v", ctxErr, err)
	}
	return err
}
