package extract_test

import (
	"testing"

	"github.com/IDGORRU/pars"
	"github.com/IDGORRU/pars/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory_Extract(t *testing.T) {
	t.Parallel()

	t.Run("lists allowlisted tags in document order", func(t *testing.T) {
		t.Parallel()

		doc := document(t, "https://example.com/", `<html><head>
			<title>Shop</title>
			<meta charset="utf-8">
			<meta name="description" content="Best shop">
			<meta property="og:title" content="Shop OG">
			<script src="/app.js"></script>
		</head><body>
			<h1>Welcome</h1><h4>Not listed</h4>
			<form method="post" action="/login"><input name="u"><input name="p" type="password"></form>
			<table><tr><td>1</td></tr><tr><td>2</td></tr></table>
			<script>var x = 1;</script>
			<h2></h2>
		</body></html>`)

		records, log := run(t, extract.NewInventory(), doc)

		type entry struct{ tag, content string }
		var got []entry
		for _, r := range records {
			tr := r.(*pars.TagRecord)
			got = append(got, entry{tr.Tag, tr.Content})
		}
		assert.Equal(t, []entry{
			{"title", "Shop"},
			{"meta", "charset: utf-8"},
			{"meta", "description: Best shop"},
			{"meta", "og:title: Shop OG"},
			{"script", "External: /app.js"},
			{"h1", "Welcome"},
			{"form", "POST /login (2 fields)"},
			{"table", "2 rows"},
			{"script", "Inline script"},
		}, got)
		assert.Equal(t, 9, log.found)
	})

	t.Run("records provenance by tag", func(t *testing.T) {
		t.Parallel()

		doc := document(t, "https://example.com/", `<meta name="keywords" content="a, b"><form></form><script></script>`)

		records, _ := run(t, extract.NewInventory(), doc)

		require.Len(t, records, 3)
		assert.Equal(t, pars.SourceMeta, records[0].Source())
		assert.Equal(t, pars.SourceForm, records[1].Source())
		assert.Equal(t, "GET (self) (0 fields)", records[1].(*pars.TagRecord).Content)
		assert.Equal(t, pars.SourceScript, records[2].Source())
	})

	t.Run("is positional", func(t *testing.T) {
		t.Parallel()

		doc := document(t, "https://example.com/", `<h3>Same</h3><h3>Same</h3>`)

		records, _ := run(t, extract.NewInventory(), doc)

		assert.Len(t, records, 2)
	})
}
