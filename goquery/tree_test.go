package goquery_test

import (
	"testing"

	"github.com/IDGORRU/pars"
	"github.com/IDGORRU/pars/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, body string) pars.Tree {
	t.Helper()
	tree, err := goquery.NewBuilder(goquery.WithCacheSize(0)).Parse(body)
	require.NoError(t, err)
	return tree
}

func TestTree_Find(t *testing.T) {
	t.Parallel()

	t.Run("returns elements of several tags in document order", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<h2>B</h2><p>para</p><h1>A</h1><h3>C</h3>`)

		els := tree.Find("h1", "h2", "h3")
		require.Len(t, els, 3)
		assert.Equal(t, "h2", els[0].Tag())
		assert.Equal(t, "h1", els[1].Tag())
		assert.Equal(t, "C", els[2].Text())
	})

	t.Run("returns nothing for missing tags", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<p>only text</p>`)

		assert.Empty(t, tree.Find("form"))
		assert.Empty(t, tree.Find())
		assert.Zero(t, tree.Count("table"))
	})

	t.Run("finds descendants of an element", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<form><input name="a"><div><input name="b"></div></form><input name="c">`)

		forms := tree.Find("form")
		require.Len(t, forms, 1)
		inputs := forms[0].Find("input")
		require.Len(t, inputs, 2)
		name, ok := inputs[1].Attr("name")
		assert.True(t, ok)
		assert.Equal(t, "b", name)
	})
}

func TestTree_FindFunc(t *testing.T) {
	t.Parallel()

	tree := parse(t, `<div data-code="X1"></div><span></span><p data-id="2"></p>`)

	els := tree.FindFunc(func(el pars.Element) bool {
		for _, a := range el.Attrs() {
			if len(a.Name) > 5 && a.Name[:5] == "data-" {
				return true
			}
		}
		return false
	})

	require.Len(t, els, 2)
	assert.Equal(t, "div", els[0].Tag())
	assert.Equal(t, "p", els[1].Tag())
}

func TestTree_Text(t *testing.T) {
	t.Parallel()

	t.Run("excludes script and style bodies", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<html><head><style>.a{}</style></head><body>
			<p>Hello   <b>world</b></p><script>var secret = 1;</script><p>bye</p>
		</body></html>`)

		assert.Equal(t, "Hello world bye", tree.Text())
	})

	t.Run("separates text of adjacent elements", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<div>a@example.com</div><div>next</div>`)

		assert.Equal(t, "a@example.com next", tree.Text())
	})
}

func TestTree_Title(t *testing.T) {
	t.Parallel()

	tree := parse(t, `<html><head><title>  Home Page </title></head><body></body></html>`)

	assert.Equal(t, "Home Page", tree.Title())
}

func TestElement_Raw(t *testing.T) {
	t.Parallel()

	tree := parse(t, `<script>const key = "<b>";</script><div><b>x</b></div>`)

	scripts := tree.Find("script")
	require.Len(t, scripts, 1)
	assert.Equal(t, `const key = "<b>";`, scripts[0].Raw())

	divs := tree.Find("div")
	require.Len(t, divs, 1)
	assert.Equal(t, "<b>x</b>", divs[0].Raw())
}

func TestBuilder_Parse(t *testing.T) {
	t.Parallel()

	t.Run("tolerates malformed markup", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<div><p>unclosed <a href="/x">link & more<div></p>`)

		assert.Len(t, tree.Find("a"), 1)
		assert.Contains(t, tree.Text(), "link & more")
	})

	t.Run("accepts an empty body", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, "")

		assert.Empty(t, tree.Text())
		assert.Empty(t, tree.Title())
	})

	t.Run("returns cached tree for identical body", func(t *testing.T) {
		t.Parallel()

		b := goquery.NewBuilder()
		first, err := b.Parse("<p>same</p>")
		require.NoError(t, err)
		second, err := b.Parse("<p>same</p>")
		require.NoError(t, err)
		third, err := b.Parse("<p>other</p>")
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.NotSame(t, first, third)
	})
}
