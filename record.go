package pars

import (
	"fmt"
	"strings"
)

// Provenance describes where in a document a finding was located.
type Provenance string

// Provenance values.
const (
	SourceText          Provenance = "text"
	SourceLink          Provenance = "link"
	SourceMeta          Provenance = "meta"
	SourceScript        Provenance = "script"
	SourceInput         Provenance = "input"
	SourceForm          Provenance = "form"
	SourceImage         Provenance = "image"
	SourceDataAttribute Provenance = "data-attribute"
)

// Record is a single extraction result. Each extraction mode produces its
// own concrete record type.
type Record interface {
	// Mode returns the mode that produced the record.
	Mode() Mode

	// Key returns the identity key used for deduplication. Positional
	// modes return an empty key.
	Key() string

	// Source returns where the finding was located.
	Source() Provenance

	// Display returns a short title and the content to show for the record.
	Display() (title, content string)
}

// EmailRecord is an email address found in text, a mailto link, a meta tag
// or a script body.
type EmailRecord struct {
	Address    string     `json:"address"`
	Provenance Provenance `json:"source"`
}

func (r *EmailRecord) Mode() Mode         { return ModeEmail }
func (r *EmailRecord) Key() string        { return strings.ToLower(r.Address) }
func (r *EmailRecord) Source() Provenance { return r.Provenance }
func (r *EmailRecord) Display() (string, string) {
	return "Email", r.Address
}

// LinkScope classifies a link relative to the page it was found on.
type LinkScope string

// Link scopes.
const (
	LinkInternal LinkScope = "internal"
	LinkExternal LinkScope = "external"
)

// LinkRecord is a resolved hyperlink.
type LinkRecord struct {
	URL        string     `json:"url"`
	Text       string     `json:"text"`
	Scope      LinkScope  `json:"scope"`
	Provenance Provenance `json:"source"`
}

func (r *LinkRecord) Mode() Mode         { return ModeLink }
func (r *LinkRecord) Key() string        { return r.URL }
func (r *LinkRecord) Source() Provenance { return r.Provenance }
func (r *LinkRecord) Display() (string, string) {
	title := r.Text
	if title == "" {
		title = r.URL
	}
	return fmt.Sprintf("%s (%s)", title, r.Scope), r.URL
}

// DataKind names the kind of structured content a DataRecord holds.
type DataKind string

// Structured content kinds.
const (
	DataHeading   DataKind = "heading"
	DataParagraph DataKind = "paragraph"
	DataImage     DataKind = "image"
	DataPhone     DataKind = "phone"
	DataPrice     DataKind = "price"
)

// DataRecord is a positional piece of structured page content.
type DataRecord struct {
	Kind       DataKind   `json:"kind"`
	Label      string     `json:"label"`
	Content    string     `json:"content"`
	Provenance Provenance `json:"source"`
}

func (r *DataRecord) Mode() Mode         { return ModeData }
func (r *DataRecord) Key() string        { return "" }
func (r *DataRecord) Source() Provenance { return r.Provenance }
func (r *DataRecord) Display() (string, string) {
	return r.Label, r.Content
}

// TagRecord is a positional entry of the tag inventory.
type TagRecord struct {
	Tag        string     `json:"tag"`
	Content    string     `json:"content"`
	Provenance Provenance `json:"source"`
}

func (r *TagRecord) Mode() Mode         { return ModeHTML }
func (r *TagRecord) Key() string        { return "" }
func (r *TagRecord) Source() Provenance { return r.Provenance }
func (r *TagRecord) Display() (string, string) {
	return "<" + r.Tag + ">", r.Content
}

// CredentialKind names the shape of a credential finding.
type CredentialKind string

// Credential finding shapes.
const (
	CredentialLoginField    CredentialKind = "login-field"
	CredentialPasswordField CredentialKind = "password-field"
	CredentialAuthForm      CredentialKind = "auth-form"
	CredentialTextMatch     CredentialKind = "text-match"
)

// FormClass classifies an authentication form by the inputs it contains.
type FormClass string

// Authentication form classes.
const (
	FormLogin          FormClass = "login"
	FormPasswordOnly   FormClass = "password-only"
	FormIdentifierOnly FormClass = "identifier-only"
)

// CredentialRecord is a login field, password field, authentication form or
// a free-text credential phrase.
type CredentialRecord struct {
	Kind       CredentialKind `json:"kind"`
	Name       string         `json:"name,omitempty"`
	ID         string         `json:"id,omitempty"`
	InputType  string         `json:"inputType,omitempty"`
	Index      int            `json:"index"`
	Class      FormClass      `json:"class,omitempty"`
	Action     string         `json:"action,omitempty"`
	Method     string         `json:"method,omitempty"`
	Rule       string         `json:"rule,omitempty"`
	Match      string         `json:"match,omitempty"`
	Provenance Provenance     `json:"source"`
}

func (r *CredentialRecord) Mode() Mode         { return ModeCredential }
func (r *CredentialRecord) Source() Provenance { return r.Provenance }

// Key combines name, id and position for fields and forms, and uses the
// literal matched text for free-text findings.
func (r *CredentialRecord) Key() string {
	if r.Kind == CredentialTextMatch {
		return r.Match
	}
	return fmt.Sprintf("%s:%s:%s:%d", r.Kind, r.Name, r.ID, r.Index)
}

func (r *CredentialRecord) Display() (string, string) {
	switch r.Kind {
	case CredentialLoginField:
		return "Login field", fieldSummary(r.Name, r.ID, r.InputType)
	case CredentialPasswordField:
		return "Password field", fieldSummary(r.Name, r.ID, r.InputType)
	case CredentialAuthForm:
		method := r.Method
		if method == "" {
			method = "GET"
		}
		return fmt.Sprintf("Auth form (%s)", r.Class), strings.TrimSpace(strings.ToUpper(method) + " " + r.Action)
	default:
		return r.Rule, r.Match
	}
}

func fieldSummary(name, id, typ string) string {
	var parts []string
	if name != "" {
		parts = append(parts, "name="+name)
	}
	if id != "" {
		parts = append(parts, "id="+id)
	}
	if typ != "" {
		parts = append(parts, "type="+typ)
	}
	return strings.Join(parts, " ")
}

// MaxSecretDisplay is the number of characters of a secret shown before
// the display value is truncated.
const MaxSecretDisplay = 100

// SecretRecord is a key, token or certificate matched by a secret rule.
// Value is the display form and Full the complete match.
type SecretRecord struct {
	Rule       string     `json:"rule"`
	Value      string     `json:"value"`
	Full       string     `json:"full"`
	Provenance Provenance `json:"source"`
}

// NewSecretRecord builds a SecretRecord, truncating the display value of
// long matches.
func NewSecretRecord(rule, match string, source Provenance) *SecretRecord {
	value := match
	if r := []rune(match); len(r) > MaxSecretDisplay {
		value = string(r[:MaxSecretDisplay]) + "..."
	}
	return &SecretRecord{Rule: rule, Value: value, Full: match, Provenance: source}
}

func (r *SecretRecord) Mode() Mode         { return ModeSecret }
func (r *SecretRecord) Key() string        { return r.Full }
func (r *SecretRecord) Source() Provenance { return r.Provenance }
func (r *SecretRecord) Display() (string, string) {
	return r.Rule, r.Value
}

// GiftCodeRecord is a gift card, voucher or promo code.
type GiftCodeRecord struct {
	Rule       string     `json:"rule"`
	Code       string     `json:"code"`
	Raw        string     `json:"raw,omitempty"`
	Provenance Provenance `json:"source"`
}

func (r *GiftCodeRecord) Mode() Mode         { return ModeGiftCode }
func (r *GiftCodeRecord) Key() string        { return r.Code }
func (r *GiftCodeRecord) Source() Provenance { return r.Provenance }
func (r *GiftCodeRecord) Display() (string, string) {
	return r.Rule, r.Code
}

// RecordView is the flat representation of a Record used for persistence,
// export and JSON responses.
type RecordView struct {
	Mode    Mode       `json:"mode"`
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Source  Provenance `json:"source"`
	Key     string     `json:"key,omitempty"`
}

// View flattens a record.
func View(r Record) RecordView {
	title, content := r.Display()
	return RecordView{
		Mode:    r.Mode(),
		Title:   title,
		Content: content,
		Source:  r.Source(),
		Key:     r.Key(),
	}
}

// Views flattens a slice of records.
func Views(records []Record) []RecordView {
	views := make([]RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, View(r))
	}
	return views
}
