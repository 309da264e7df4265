package extract

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/IDGORRU/pars"
)

var _ pars.Extractor = (*GiftCode)(nil)

// MinCodeLength is the minimum length of a cleaned gift code.
const MinCodeLength = 4

// codeFieldHints mark inputs and data attributes that hold codes.
var codeFieldHints = []string{"code", "gift", "promo", "coupon", "voucher"}

// GiftCode finds gift card, voucher and promo codes in the page text, code
// input fields, data attributes and QR code images.
type GiftCode struct {
	lib pars.PatternLibrary
}

// NewGiftCode creates a GiftCode extractor.
func NewGiftCode(lib pars.PatternLibrary) *GiftCode {
	return &GiftCode{lib: lib}
}

func (e *GiftCode) Mode() pars.Mode { return pars.ModeGiftCode }

func (e *GiftCode) Extract(ctx context.Context, doc *pars.Document, r pars.Reporter) ([]pars.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := newCollector(r)
	c.r.Log("Searching for gift codes...")

	c.logRules(e.scan(c, doc.Tree.Text(), pars.SourceText), "page text")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := 0
	for _, in := range doc.Tree.Find("input") {
		ident := strings.ToLower(attr(in, "name") + " " + attr(in, "id"))
		if !containsAny(ident, codeFieldHints...) {
			continue
		}
		if code, ok := TrimCode(attr(in, "value")); ok {
			if c.add(&pars.GiftCodeRecord{Rule: "Input field", Code: code, Raw: attr(in, "value"), Provenance: pars.SourceInput}) {
				n++
			}
		}
	}
	c.logFound(n, "code(s)", "input fields")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n = 0
	for _, el := range doc.Tree.FindFunc(hasDataAttr) {
		for _, a := range el.Attrs() {
			name := strings.ToLower(a.Name)
			if !strings.HasPrefix(name, "data-") || strings.TrimSpace(a.Value) == "" {
				continue
			}
			if containsAny(name, codeFieldHints...) {
				if code, ok := TrimCode(a.Value); ok {
					if c.add(&pars.GiftCodeRecord{Rule: "Data attribute", Code: code, Raw: a.Value, Provenance: pars.SourceDataAttribute}) {
						n++
					}
				}
				continue
			}
			n += len(e.scan(c, a.Value, pars.SourceDataAttribute))
		}
	}
	c.logFound(n, "code(s)", "data attributes")

	base := parseBase(doc.BaseURL)
	n = 0
	for _, img := range doc.Tree.Find("img") {
		src := attr(img, "src")
		if src == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(src), "qr") && !strings.Contains(strings.ToLower(attr(img, "alt")), "qr") {
			continue
		}
		if c.add(&pars.GiftCodeRecord{Rule: "QR Code", Code: resolveOrRaw(base, src), Raw: attr(img, "alt"), Provenance: pars.SourceImage}) {
			n++
		}
	}
	c.logFound(n, "QR code image(s)", "document")

	return c.records, nil
}

// scan applies the gift code rules to text and returns the matches that
// produced new records.
func (e *GiftCode) scan(c *collector, text string, source pars.Provenance) []pars.RuleMatch {
	var kept []pars.RuleMatch
	for _, m := range e.lib.Match(pars.ModeGiftCode, text) {
		code, ok := CleanCode(m.Text)
		if !ok {
			continue
		}
		if c.add(&pars.GiftCodeRecord{Rule: m.Rule.Label, Code: code, Raw: m.Text, Provenance: source}) {
			kept = append(kept, m)
		}
	}
	return kept
}

// CleanCode reduces a rule match such as "Promo code: ABCD-1234!" to the
// code itself. It takes the last token after any label and separator and
// then applies TrimCode.
func CleanCode(raw string) (string, bool) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == ':' || r == '#' || r == '№'
	})
	if len(fields) == 0 {
		return "", false
	}
	return TrimCode(fields[len(fields)-1])
}

// TrimCode strips leading and trailing characters that are not letters or
// digits from a field value, keeping inner spaces, and reports false when
// fewer than MinCodeLength characters remain.
func TrimCode(raw string) (string, bool) {
	code := strings.TrimFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if utf8.RuneCountInString(code) < MinCodeLength {
		return "", false
	}
	return code, true
}

func hasDataAttr(el pars.Element) bool {
	for _, a := range el.Attrs() {
		if strings.HasPrefix(strings.ToLower(a.Name), "data-") {
			return true
		}
	}
	return false
}
