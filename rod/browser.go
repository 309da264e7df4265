package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of pages rendered before the
// browser is relaunched.
const DefaultMaxPages = 50

// browserPool owns the headless browser and relaunches it after maxPages
// pages, since Chrome does not give memory back between navigations.
type browserPool struct {
	mu        sync.Mutex
	browser   *rod.Browser
	launcher  *launcher.Launcher
	proxy     string
	pageCount atomic.Int64
	maxPages  int64
	closed    atomic.Bool
}

func newBrowserPool(proxy string, maxPages int64) (*browserPool, error) {
	p := &browserPool{proxy: proxy, maxPages: maxPages}
	if err := p.launch(); err != nil {
		return nil, err
	}
	return p, nil
}

// acquire returns the current browser, relaunching it first when the page
// budget is spent. The relaunch is skipped if it fails.
func (p *browserPool) acquire() (*rod.Browser, error) {
	if p.closed.Load() {
		return nil, errClosed
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.maxPages > 0 && p.pageCount.Load() >= p.maxPages {
		p.recycle()
	}
	p.pageCount.Add(1)
	return p.browser, nil
}

func (p *browserPool) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-blink-features", "AutomationControlled").
		Leakless(true).
		Headless(true)
	if p.proxy != "" {
		l = l.Proxy(p.proxy)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	p.browser = browser
	p.launcher = l
	return nil
}

// recycle must be called with mu held.
func (p *browserPool) recycle() {
	oldBrowser, oldLauncher := p.browser, p.launcher
	if err := p.launch(); err != nil {
		p.browser, p.launcher = oldBrowser, oldLauncher
		return
	}
	_ = oldBrowser.Close()
	oldLauncher.Kill()
	p.pageCount.Store(0)
}

func (p *browserPool) close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.browser != nil {
		err = p.browser.Close()
		p.browser = nil
	}
	if p.launcher != nil {
		p.launcher.Kill()
		p.launcher = nil
	}
	return err
}
