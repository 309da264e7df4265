package extract

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/IDGORRU/pars"
)

var _ pars.Extractor = (*Data)(nil)

// MinParagraphLength is the number of characters a paragraph must exceed to
// be reported.
const MinParagraphLength = 20

// MaxParagraphLength is the number of characters of a paragraph kept before
// it is truncated.
const MaxParagraphLength = 200

// Data collects headings, paragraphs and images in document order, followed
// by phone numbers and prices found in the page text. Records are positional
// and never deduplicated.
type Data struct {
	lib pars.PatternLibrary
}

// NewData creates a Data extractor.
func NewData(lib pars.PatternLibrary) *Data {
	return &Data{lib: lib}
}

func (d *Data) Mode() pars.Mode { return pars.ModeData }

func (d *Data) Extract(ctx context.Context, doc *pars.Document, r pars.Reporter) ([]pars.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := newCollector(r)
	c.r.Log("Extracting structured data...")

	base := parseBase(doc.BaseURL)
	var headings, paragraphs, images int
	for _, el := range doc.Tree.Find("h1", "h2", "h3", "h4", "h5", "h6", "p", "img") {
		switch tag := el.Tag(); tag {
		case "p":
			text := el.Text()
			if utf8.RuneCountInString(text) <= MinParagraphLength {
				continue
			}
			c.add(&pars.DataRecord{Kind: pars.DataParagraph, Label: "Paragraph", Content: truncate(text, MaxParagraphLength), Provenance: pars.SourceText})
			paragraphs++
		case "img":
			src := attr(el, "src")
			if src == "" {
				continue
			}
			c.add(&pars.DataRecord{Kind: pars.DataImage, Label: "Image", Content: resolveOrRaw(base, src), Provenance: pars.SourceImage})
			images++
		default:
			text := el.Text()
			if text == "" {
				continue
			}
			c.add(&pars.DataRecord{Kind: pars.DataHeading, Label: strings.ToUpper(tag), Content: text, Provenance: pars.SourceText})
			headings++
		}
	}
	c.logFound(headings, "heading(s)", "document")
	c.logFound(paragraphs, "paragraph(s)", "document")
	c.logFound(images, "image(s)", "document")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches := d.lib.Match(pars.ModeData, doc.Tree.Text())
	for _, m := range matches {
		kind := pars.DataKind(m.Rule.Group)
		c.add(&pars.DataRecord{Kind: kind, Label: m.Rule.Label, Content: strings.TrimSpace(m.Text), Provenance: pars.SourceText})
	}
	c.logRules(matches, "page text")

	return c.records, nil
}

// truncate shortens s to n runes followed by an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
