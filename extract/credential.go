package extract

import (
	"context"
	"strings"

	"github.com/IDGORRU/pars"
)

var _ pars.Extractor = (*Credential)(nil)

// Credential finds login and password fields, the forms containing them and
// free-text credential phrases.
type Credential struct {
	lib pars.PatternLibrary
}

// NewCredential creates a Credential extractor.
func NewCredential(lib pars.PatternLibrary) *Credential {
	return &Credential{lib: lib}
}

func (e *Credential) Mode() pars.Mode { return pars.ModeCredential }

func (e *Credential) Extract(ctx context.Context, doc *pars.Document, r pars.Reporter) ([]pars.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := newCollector(r)
	c.r.Log("Searching for credential fields...")

	var logins, passwords int
	for i, in := range doc.Tree.Find("input") {
		kind, ok := classifyInput(in)
		if !ok {
			continue
		}
		rec := &pars.CredentialRecord{
			Kind:       kind,
			Name:       attr(in, "name"),
			ID:         attr(in, "id"),
			InputType:  inputType(in),
			Index:      i,
			Provenance: pars.SourceInput,
		}
		if !c.add(rec) {
			continue
		}
		if kind == pars.CredentialPasswordField {
			passwords++
		} else {
			logins++
		}
	}
	c.logFound(logins, "login field(s)", "inputs")
	c.logFound(passwords, "password field(s)", "inputs")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	forms := 0
	for i, f := range doc.Tree.Find("form") {
		class, ok := classifyForm(f)
		if !ok {
			continue
		}
		rec := &pars.CredentialRecord{
			Kind:       pars.CredentialAuthForm,
			Name:       attr(f, "name"),
			ID:         attr(f, "id"),
			Index:      i,
			Class:      class,
			Action:     attr(f, "action"),
			Method:     strings.ToUpper(attr(f, "method")),
			Provenance: pars.SourceForm,
		}
		if c.add(rec) {
			forms++
		}
	}
	c.logFound(forms, "authentication form(s)", "document")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches := e.lib.Match(pars.ModeCredential, doc.Tree.Text())
	for _, m := range matches {
		c.add(&pars.CredentialRecord{
			Kind:       pars.CredentialTextMatch,
			Rule:       m.Rule.Label,
			Match:      m.Text,
			Provenance: pars.SourceText,
		})
	}
	c.logRules(matches, "page text")

	return c.records, nil
}

// nonTextInputs are input types that never hold typed credentials.
var nonTextInputs = map[string]bool{
	"hidden":   true,
	"submit":   true,
	"button":   true,
	"reset":    true,
	"checkbox": true,
	"radio":    true,
	"image":    true,
	"file":     true,
}

func inputType(in pars.Element) string {
	typ := strings.ToLower(attr(in, "type"))
	if typ == "" {
		return "text"
	}
	return typ
}

// classifyInput reports whether an input looks like a password or a login
// field. Password detection takes precedence.
func classifyInput(in pars.Element) (pars.CredentialKind, bool) {
	typ := inputType(in)
	ident := strings.ToLower(attr(in, "name") + " " + attr(in, "id"))

	switch {
	case nonTextInputs[typ]:
		return "", false
	case typ == "password" || strings.Contains(ident, "pass"):
		return pars.CredentialPasswordField, true
	case typ == "text" || typ == "email" || containsAny(ident, "login", "user", "email"):
		return pars.CredentialLoginField, true
	default:
		return "", false
	}
}

// classifyForm classifies a form by the credential inputs it contains.
func classifyForm(f pars.Element) (pars.FormClass, bool) {
	var login, password bool
	for _, in := range f.Find("input") {
		switch kind, _ := classifyInput(in); kind {
		case pars.CredentialPasswordField:
			password = true
		case pars.CredentialLoginField:
			login = true
		}
	}

	switch {
	case login && password:
		return pars.FormLogin, true
	case password:
		return pars.FormPasswordOnly, true
	case login:
		return pars.FormIdentifierOnly, true
	default:
		return "", false
	}
}
