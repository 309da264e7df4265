package extract_test

import (
	"testing"

	"github.com/IDGORRU/pars"
	"github.com/IDGORRU/pars/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func links(t *testing.T, baseURL, body string) []*pars.LinkRecord {
	t.Helper()
	records, _ := run(t, extract.NewLink(), document(t, baseURL, body))
	out := make([]*pars.LinkRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r.(*pars.LinkRecord))
	}
	return out
}

func TestLink_Extract(t *testing.T) {
	t.Parallel()

	t.Run("resolves relative references against the base URL", func(t *testing.T) {
		t.Parallel()

		got := links(t, "https://example.com/a/", `<a href="../b">B</a><a href="/c">C</a><a href="./d">D</a>`)

		require.Len(t, got, 3)
		assert.Equal(t, "https://example.com/b", got[0].URL)
		assert.Equal(t, "https://example.com/c", got[1].URL)
		assert.Equal(t, "https://example.com/a/d", got[2].URL)
		assert.Equal(t, pars.LinkInternal, got[0].Scope)
		assert.Equal(t, "B", got[0].Text)
	})

	t.Run("skips non-HTTP, fragment-only and malformed references", func(t *testing.T) {
		t.Parallel()

		got := links(t, "https://example.com/", `
			<a href="javascript:void(0)">js</a>
			<a href="mailto:a@b.com">mail</a>
			<a href="tel:+123">phone</a>
			<a href="data:text/plain,hi">data</a>
			<a href="#top">top</a>
			<a href="">empty</a>
			<a>no href</a>
			<a href="http://[::1">bad</a>
			<a href="ftp://files.example.com/x">ftp</a>`)

		assert.Empty(t, got)
	})

	t.Run("deduplicates by resolved URL without fragment", func(t *testing.T) {
		t.Parallel()

		got := links(t, "https://example.com/",
			`<a href="/x#one">X</a><a href="https://example.com/x#two">X again</a><a href="https://docs.example.com/y">Docs</a>`)

		require.Len(t, got, 2)
		assert.Equal(t, "https://example.com/x", got[0].URL)
		assert.Equal(t, "X", got[0].Text)
		assert.Equal(t, "https://docs.example.com/y", got[1].URL)
		assert.Equal(t, pars.LinkExternal, got[1].Scope)
	})

	t.Run("falls back to title and image alt for text", func(t *testing.T) {
		t.Parallel()

		got := links(t, "https://example.com/",
			`<a href="/t" title="Titled"></a><a href="/i"><img src="i.png" alt="Icon"></a><a href="/n"></a>`)

		require.Len(t, got, 3)
		assert.Equal(t, "Titled", got[0].Text)
		assert.Equal(t, "Icon", got[1].Text)
		assert.Empty(t, got[2].Text)
	})

	t.Run("keeps only absolute links without a base URL", func(t *testing.T) {
		t.Parallel()

		got := links(t, "", `<a href="/relative">R</a><a href="https://example.org/">A</a>`)

		require.Len(t, got, 1)
		assert.Equal(t, "https://example.org/", got[0].URL)
		assert.Equal(t, pars.LinkExternal, got[0].Scope)
	})
}
