// Package extract implements the extraction modes of pars. Each extractor
// reads a parsed document and produces ordered records, deduplicating keyed
// modes by identity key.
package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/IDGORRU/pars"
	"github.com/IDGORRU/pars/bloom"
)

// collector accumulates the records of one extraction, dropping keyed
// records whose identity key was already emitted.
type collector struct {
	r       pars.Reporter
	keys    *bloom.KeySet
	records []pars.Record
}

func newCollector(r pars.Reporter) *collector {
	if r == nil {
		r = nopReporter{}
	}
	c := &collector{r: r}
	c.keys = bloom.NewKeySet(bloom.DefaultCapacity, bloom.DefaultFalsePositiveRate, c.emitted)
	return c
}

// emitted reports whether a record with key was already kept. The key set
// calls it only on filter positives.
func (c *collector) emitted(key string) bool {
	for i := len(c.records) - 1; i >= 0; i-- {
		if rec := c.records[i]; !rec.Mode().Positional() && rec.Key() == key {
			return true
		}
	}
	return false
}

// add appends rec unless it duplicates an earlier keyed record. It reports
// whether the record was kept.
func (c *collector) add(rec pars.Record) bool {
	if !rec.Mode().Positional() && !c.keys.Add(rec.Key()) {
		return false
	}
	c.records = append(c.records, rec)
	c.r.IncrementFound()
	return true
}

// logFound writes a summary line for a source that produced records.
func (c *collector) logFound(n int, what, source string) {
	if n > 0 {
		c.r.Log(fmt.Sprintf("Found %d %s in %s", n, what, source))
	}
}

// logRules writes one line per rule that matched, in rule order.
func (c *collector) logRules(matches []pars.RuleMatch, source string) {
	for i := 0; i < len(matches); {
		j := i
		for j < len(matches) && matches[j].Rule.Label == matches[i].Rule.Label {
			j++
		}
		c.r.Log(fmt.Sprintf("Rule %q matched %d time(s) in %s", matches[i].Rule.Label, j-i, source))
		i = j
	}
}

type nopReporter struct{}

func (nopReporter) Log(string)            {}
func (nopReporter) IncrementFound()       {}
func (nopReporter) SetEstimatedTotal(int) {}
func (nopReporter) Tick()                 {}

// attr returns the trimmed value of an attribute, or "" when absent.
func attr(el pars.Element, name string) string {
	v, _ := el.Attr(name)
	return strings.TrimSpace(v)
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// parseBase parses a base URL. It returns nil unless the URL is absolute.
func parseBase(raw string) *url.URL {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil
	}
	return u
}

// resolve resolves href against base and strips the fragment. It fails for
// references that cannot be parsed or that do not resolve to an absolute
// http(s) URL.
func resolve(base *url.URL, href string) (*url.URL, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, false
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	ref.Fragment = ""
	ref.RawFragment = ""
	if (ref.Scheme != "http" && ref.Scheme != "https") || ref.Host == "" {
		return nil, false
	}
	return ref, true
}

// resolveOrRaw returns the resolved form of href, or href itself when it
// cannot be resolved.
func resolveOrRaw(base *url.URL, href string) string {
	if u, ok := resolve(base, href); ok {
		return u.String()
	}
	return href
}
