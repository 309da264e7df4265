package pars_test

import (
	"strings"
	"testing"

	"github.com/IDGORRU/pars"
	"github.com/stretchr/testify/assert"
)

func TestCredentialRecord_Key(t *testing.T) {
	t.Parallel()

	t.Run("fields combine kind, name, id and index", func(t *testing.T) {
		t.Parallel()

		r := &pars.CredentialRecord{Kind: pars.CredentialLoginField, Name: "user", ID: "u1", Index: 2}
		assert.Equal(t, "login-field:user:u1:2", r.Key())
	})

	t.Run("text matches use the literal match", func(t *testing.T) {
		t.Parallel()

		r := &pars.CredentialRecord{Kind: pars.CredentialTextMatch, Match: "login: admin"}
		assert.Equal(t, "login: admin", r.Key())
	})
}

func TestNewSecretRecord(t *testing.T) {
	t.Parallel()

	t.Run("keeps short matches as is", func(t *testing.T) {
		t.Parallel()

		r := pars.NewSecretRecord("GitHub Token", "ghp_abc", pars.SourceText)
		assert.Equal(t, "ghp_abc", r.Value)
		assert.Equal(t, "ghp_abc", r.Key())
	})

	t.Run("truncates long matches for display only", func(t *testing.T) {
		t.Parallel()

		full := strings.Repeat("a", 150)
		r := pars.NewSecretRecord("JWT", full, pars.SourceScript)
		assert.Equal(t, strings.Repeat("a", 100)+"...", r.Value)
		assert.Equal(t, full, r.Full)
		assert.Equal(t, full, r.Key())
	})
}

func TestView(t *testing.T) {
	t.Parallel()

	v := pars.View(&pars.LinkRecord{
		URL:        "https://example.com/b",
		Text:       "B",
		Scope:      pars.LinkInternal,
		Provenance: pars.SourceLink,
	})

	assert.Equal(t, pars.ModeLink, v.Mode)
	assert.Equal(t, "B (internal)", v.Title)
	assert.Equal(t, "https://example.com/b", v.Content)
	assert.Equal(t, pars.SourceLink, v.Source)
	assert.Equal(t, "https://example.com/b", v.Key)
}

func TestRecord_PositionalKeys(t *testing.T) {
	t.Parallel()

	assert.Empty(t, (&pars.DataRecord{Kind: pars.DataHeading, Content: "Title"}).Key())
	assert.Empty(t, (&pars.TagRecord{Tag: "title", Content: "Home"}).Key())
}
