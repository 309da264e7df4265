// Package goquery implements pars.TreeBuilder using goquery and cascadia.
package goquery

import (
	"strings"
	"sync"

	"github.com/IDGORRU/pars"
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Ensure Tree and Element implement the pars interfaces at compile time.
var (
	_ pars.Tree    = (*Tree)(nil)
	_ pars.Element = (*Element)(nil)
)

// hiddenTags hold content that is never rendered as page text.
var hiddenTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// matchers caches compiled tag selectors keyed by their source.
var matchers sync.Map

func tagMatcher(tags []string) cascadia.Selector {
	src := strings.ToLower(strings.Join(tags, ", "))
	if m, ok := matchers.Load(src); ok {
		return m.(cascadia.Selector)
	}
	sel, err := cascadia.Compile(src)
	if err != nil {
		// Tag lists come from code; an invalid one matches nothing.
		sel = func(*html.Node) bool { return false }
	}
	matchers.Store(src, sel)
	return sel
}

// Tree is a parsed document. It is read-only after construction and safe
// for concurrent use.
type Tree struct {
	doc *goquery.Document

	textOnce sync.Once
	text     string
}

// NewTree wraps a goquery document.
func NewTree(doc *goquery.Document) *Tree {
	return &Tree{doc: doc}
}

// Find returns all elements with any of the given tag names, in document
// order.
func (t *Tree) Find(tags ...string) []pars.Element {
	if len(tags) == 0 {
		return nil
	}
	return wrap(t.doc.FindMatcher(tagMatcher(tags)))
}

// FindFunc returns all elements matching fn, in document order.
func (t *Tree) FindFunc(fn func(pars.Element) bool) []pars.Element {
	var out []pars.Element
	for _, el := range wrap(t.doc.Find("*")) {
		if fn(el) {
			out = append(out, el)
		}
	}
	return out
}

// Text returns the visible document text with whitespace collapsed.
func (t *Tree) Text() string {
	t.textOnce.Do(func() {
		var parts []string
		for _, n := range t.doc.Nodes {
			collectText(n, &parts)
		}
		t.text = strings.Join(parts, " ")
	})
	return t.text
}

// Title returns the trimmed text of the first title element.
func (t *Tree) Title() string {
	return strings.TrimSpace(t.doc.Find("title").First().Text())
}

// Count returns the number of elements with any of the given tags.
func (t *Tree) Count(tags ...string) int {
	if len(tags) == 0 {
		return 0
	}
	return t.doc.FindMatcher(tagMatcher(tags)).Length()
}

// Element is a single element of a Tree.
type Element struct {
	sel *goquery.Selection
}

func wrap(sel *goquery.Selection) []pars.Element {
	out := make([]pars.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &Element{sel: s})
	})
	return out
}

// Tag returns the lower-cased tag name.
func (e *Element) Tag() string {
	return strings.ToLower(goquery.NodeName(e.sel))
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	return e.sel.Attr(strings.ToLower(name))
}

// Attrs returns all attributes in source order.
func (e *Element) Attrs() []pars.Attribute {
	if len(e.sel.Nodes) == 0 {
		return nil
	}
	attrs := make([]pars.Attribute, 0, len(e.sel.Nodes[0].Attr))
	for _, a := range e.sel.Nodes[0].Attr {
		attrs = append(attrs, pars.Attribute{Name: a.Key, Value: a.Val})
	}
	return attrs
}

// Text returns the visible text of the element with whitespace collapsed.
func (e *Element) Text() string {
	var parts []string
	for _, n := range e.sel.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, " ")
}

// Raw returns the body of raw-text elements and the inner markup of all
// others.
func (e *Element) Raw() string {
	if hiddenTags[e.Tag()] {
		return e.sel.Text()
	}
	inner, err := e.sel.Html()
	if err != nil {
		return ""
	}
	return inner
}

// Find returns descendants with any of the given tag names.
func (e *Element) Find(tags ...string) []pars.Element {
	if len(tags) == 0 {
		return nil
	}
	return wrap(e.sel.FindMatcher(tagMatcher(tags)))
}

// collectText appends the whitespace-separated words of every visible text
// node below n.
func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		if fields := strings.Fields(n.Data); len(fields) > 0 {
			*parts = append(*parts, strings.Join(fields, " "))
		}
		return
	case html.ElementNode:
		if hiddenTags[n.Data] {
			return
		}
	case html.CommentNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
