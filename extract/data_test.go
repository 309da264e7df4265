package extract_test

import (
	"strings"
	"testing"

	"github.com/IDGORRU/pars"
	"github.com/IDGORRU/pars/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataRecords(t *testing.T, baseURL, body string) []*pars.DataRecord {
	t.Helper()
	records, _ := run(t, extract.NewData(library(t)), document(t, baseURL, body))
	out := make([]*pars.DataRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r.(*pars.DataRecord))
	}
	return out
}

func TestData_Extract(t *testing.T) {
	t.Parallel()

	t.Run("keeps identical headings as separate records", func(t *testing.T) {
		t.Parallel()

		got := dataRecords(t, "https://example.com/", `<h1>Title</h1><h1>Title</h1><h1>Title</h1>`)

		require.Len(t, got, 3)
		for _, r := range got {
			assert.Equal(t, pars.DataHeading, r.Kind)
			assert.Equal(t, "H1", r.Label)
			assert.Equal(t, "Title", r.Content)
		}
	})

	t.Run("filters short paragraphs and truncates long ones", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("a", 250)
		got := dataRecords(t, "https://example.com/",
			`<p>Too short</p><p>`+strings.Repeat("b", 20)+`</p><p>`+strings.Repeat("c", 21)+`</p><p>`+long+`</p>`)

		require.Len(t, got, 2)
		assert.Equal(t, strings.Repeat("c", 21), got[0].Content)
		assert.Equal(t, strings.Repeat("a", 200)+"...", got[1].Content)
		assert.Equal(t, pars.DataParagraph, got[1].Kind)
	})

	t.Run("reports images with a source in document order", func(t *testing.T) {
		t.Parallel()

		got := dataRecords(t, "https://example.com/a/", `<img src="pic.png"><h2>Sub</h2><img alt="no source">`)

		require.Len(t, got, 2)
		assert.Equal(t, pars.DataImage, got[0].Kind)
		assert.Equal(t, "https://example.com/a/pic.png", got[0].Content)
		assert.Equal(t, pars.SourceImage, got[0].Provenance)
		assert.Equal(t, "H2", got[1].Label)
	})

	t.Run("appends phone numbers and prices found in text", func(t *testing.T) {
		t.Parallel()

		got := dataRecords(t, "https://example.com/", `<div>Call +7 (495) 123-45-67, price 1500 руб</div>`)

		require.Len(t, got, 2)
		assert.Equal(t, pars.DataPhone, got[0].Kind)
		assert.Equal(t, "+7 (495) 123-45-67", got[0].Content)
		assert.Equal(t, pars.DataPrice, got[1].Kind)
		assert.Equal(t, "1500 руб", got[1].Content)
	})
}
