package extract

import (
	"context"
	"net/url"
	"strings"

	"github.com/IDGORRU/pars"
)

var _ pars.Extractor = (*Email)(nil)

// Email finds email addresses in the visible text, mailto links, meta
// content and script bodies. Addresses are lower-cased.
type Email struct {
	lib pars.PatternLibrary
}

// NewEmail creates an Email extractor.
func NewEmail(lib pars.PatternLibrary) *Email {
	return &Email{lib: lib}
}

func (e *Email) Mode() pars.Mode { return pars.ModeEmail }

func (e *Email) Extract(ctx context.Context, doc *pars.Document, r pars.Reporter) ([]pars.Record, error) {
	c := newCollector(r)
	c.r.Log("Searching for email addresses...")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.logFound(e.scan(c, doc.Tree.Text(), pars.SourceText), "address(es)", "page text")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := 0
	for _, a := range doc.Tree.Find("a") {
		href := attr(a, "href")
		if len(href) < len("mailto:") || !strings.EqualFold(href[:len("mailto:")], "mailto:") {
			continue
		}
		n += e.scan(c, mailtoAddresses(href), pars.SourceLink)
	}
	c.logFound(n, "address(es)", "mailto links")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n = 0
	for _, m := range doc.Tree.Find("meta") {
		n += e.scan(c, attr(m, "content"), pars.SourceMeta)
	}
	c.logFound(n, "address(es)", "meta tags")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n = 0
	for _, s := range doc.Tree.Find("script") {
		n += e.scan(c, s.Raw(), pars.SourceScript)
	}
	c.logFound(n, "address(es)", "scripts")

	return c.records, nil
}

func (e *Email) scan(c *collector, text string, source pars.Provenance) int {
	n := 0
	for _, m := range e.lib.Match(pars.ModeEmail, text) {
		if c.add(&pars.EmailRecord{Address: strings.ToLower(m.Text), Provenance: source}) {
			n++
		}
	}
	return n
}

// mailtoAddresses returns the address list of a mailto href without its
// scheme and query.
func mailtoAddresses(href string) string {
	addrs, _, _ := strings.Cut(href[len("mailto:"):], "?")
	if unescaped, err := url.PathUnescape(addrs); err == nil {
		addrs = unescaped
	}
	return strings.ReplaceAll(addrs, ",", " ")
}
