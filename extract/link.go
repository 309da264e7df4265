package extract

import (
	"context"
	"strings"

	"github.com/IDGORRU/pars"
)

var _ pars.Extractor = (*Link)(nil)

// Link collects hyperlinks resolved against the document's base URL.
type Link struct{}

// NewLink creates a Link extractor.
func NewLink() *Link {
	return &Link{}
}

func (l *Link) Mode() pars.Mode { return pars.ModeLink }

func (l *Link) Extract(ctx context.Context, doc *pars.Document, r pars.Reporter) ([]pars.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := newCollector(r)
	c.r.Log("Extracting links...")

	base := parseBase(doc.BaseURL)
	var internal, external int
	for _, a := range doc.Tree.Find("a") {
		href := attr(a, "href")
		if href == "" || strings.HasPrefix(href, "#") || isNonHTTPLink(href) {
			continue
		}
		u, ok := resolve(base, href)
		if !ok {
			continue
		}

		scope := pars.LinkExternal
		if base != nil && strings.EqualFold(u.Hostname(), base.Hostname()) {
			scope = pars.LinkInternal
		}
		if !c.add(&pars.LinkRecord{URL: u.String(), Text: linkText(a), Scope: scope, Provenance: pars.SourceLink}) {
			continue
		}
		if scope == pars.LinkInternal {
			internal++
		} else {
			external++
		}
	}
	c.logFound(internal, "internal link(s)", "anchors")
	c.logFound(external, "external link(s)", "anchors")

	return c.records, nil
}

// linkText returns the anchor text, falling back to its title, aria-label
// and the alt text of a contained image.
func linkText(a pars.Element) string {
	if text := a.Text(); text != "" {
		return text
	}
	for _, name := range []string{"title", "aria-label"} {
		if v := attr(a, name); v != "" {
			return v
		}
	}
	for _, img := range a.Find("img") {
		if alt := attr(img, "alt"); alt != "" {
			return alt
		}
	}
	return ""
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
