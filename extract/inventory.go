package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/IDGORRU/pars"
)

var _ pars.Extractor = (*Inventory)(nil)

// inventoryTags is the allowlist of tags reported by Inventory.
var inventoryTags = []string{"title", "meta", "h1", "h2", "h3", "form", "table", "script"}

// Inventory lists title, meta, heading, form, table and script tags in
// document order. Records are positional and never deduplicated.
type Inventory struct{}

// NewInventory creates an Inventory extractor.
func NewInventory() *Inventory {
	return &Inventory{}
}

func (i *Inventory) Mode() pars.Mode { return pars.ModeHTML }

func (i *Inventory) Extract(ctx context.Context, doc *pars.Document, r pars.Reporter) ([]pars.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := newCollector(r)
	c.r.Log("Analyzing HTML structure...")

	for _, el := range doc.Tree.Find(inventoryTags...) {
		tag := el.Tag()
		content, source := inventoryContent(el, tag)
		if content == "" {
			continue
		}
		c.add(&pars.TagRecord{Tag: tag, Content: content, Provenance: source})
	}
	c.logFound(len(c.records), "tag(s)", "document")

	return c.records, nil
}

func inventoryContent(el pars.Element, tag string) (string, pars.Provenance) {
	switch tag {
	case "meta":
		return metaContent(el), pars.SourceMeta
	case "form":
		method := strings.ToUpper(attr(el, "method"))
		if method == "" {
			method = "GET"
		}
		action := attr(el, "action")
		if action == "" {
			action = "(self)"
		}
		fields := len(el.Find("input", "select", "textarea"))
		return fmt.Sprintf("%s %s (%d fields)", method, action, fields), pars.SourceForm
	case "table":
		return fmt.Sprintf("%d rows", len(el.Find("tr"))), pars.SourceText
	case "script":
		if src := attr(el, "src"); src != "" {
			return "External: " + src, pars.SourceScript
		}
		return "Inline script", pars.SourceScript
	default:
		return el.Text(), pars.SourceText
	}
}

// metaContent renders a meta tag as "name: value".
func metaContent(el pars.Element) string {
	if cs := attr(el, "charset"); cs != "" {
		return "charset: " + cs
	}
	content := attr(el, "content")
	if content == "" {
		return ""
	}
	for _, key := range []string{"name", "property", "http-equiv", "itemprop"} {
		if name := attr(el, key); name != "" {
			return name + ": " + content
		}
	}
	return content
}
