package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/IDGORRU/pars"
)

var _ pars.Extractor = (*Secret)(nil)

// Secret finds API keys, tokens, private keys and certificates in meta tags,
// inline scripts and the raw body. Each source is scanned independently and
// matches are deduplicated by their full text.
type Secret struct {
	lib pars.PatternLibrary
}

// NewSecret creates a Secret extractor.
func NewSecret(lib pars.PatternLibrary) *Secret {
	return &Secret{lib: lib}
}

func (e *Secret) Mode() pars.Mode { return pars.ModeSecret }

func (e *Secret) Extract(ctx context.Context, doc *pars.Document, r pars.Reporter) ([]pars.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := newCollector(r)
	c.r.Log(fmt.Sprintf("Scanning with %d secret rules...", len(e.lib.RulesFor(pars.ModeSecret))))

	var metas []pars.RuleMatch
	for _, m := range doc.Tree.Find("meta") {
		name := strings.ToLower(attr(m, "name") + " " + attr(m, "property"))
		if !containsAny(name, "key", "token") {
			continue
		}
		metas = append(metas, e.scan(c, attr(m, "content"), pars.SourceMeta)...)
	}
	c.logRules(metas, "meta tags")

	for i, s := range doc.Tree.Find("script") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if attr(s, "src") != "" {
			continue
		}
		c.logRules(e.scan(c, s.Raw(), pars.SourceScript), fmt.Sprintf("script #%d", i+1))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.logRules(e.scan(c, doc.Body, pars.SourceText), "raw text")

	return c.records, nil
}

// scan applies the secret rules to text and returns the matches that
// produced new records.
func (e *Secret) scan(c *collector, text string, source pars.Provenance) []pars.RuleMatch {
	var kept []pars.RuleMatch
	for _, m := range e.lib.Match(pars.ModeSecret, text) {
		if c.add(pars.NewSecretRecord(m.Rule.Label, m.Text, source)) {
			kept = append(kept, m)
		}
	}
	return kept
}
