package http

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Relay is a public CORS relay that fetches a target URL on the caller's
// behalf.
type Relay struct {
	// Name identifies the relay in logs.
	Name string

	// Endpoint is the relay address the escaped target URL is appended to.
	Endpoint string

	// Envelope is set when the relay wraps the page in a JSON object with
	// a "contents" field instead of returning it raw.
	Envelope bool
}

// Built-in relays in the order they are tried.
var (
	AllOrigins = Relay{Name: "allorigins", Endpoint: "https://api.allorigins.win/get?url=", Envelope: true}
	CorsProxy  = Relay{Name: "corsproxy", Endpoint: "https://corsproxy.io/?url="}
	CodeTabs   = Relay{Name: "codetabs", Endpoint: "https://api.codetabs.com/v1/proxy?quest="}
)

// URL returns the relay address for target.
func (r Relay) URL(target string) string {
	return r.Endpoint + url.QueryEscape(target)
}

type envelope struct {
	Contents *string `json:"contents"`
	Status   struct {
		HTTPCode int `json:"http_code"`
	} `json:"status"`
}

// Unwrap extracts the page from an enveloped relay response.
func (r Relay) Unwrap(raw []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("malformed %s response: %w", r.Name, err)
	}
	if env.Contents == nil {
		return "", fmt.Errorf("malformed %s response: missing contents", r.Name)
	}
	if code := env.Status.HTTPCode; code != 0 && (code < 200 || code > 299) {
		return "", fmt.Errorf("HTTP %d via %s", code, r.Name)
	}
	return *env.Contents, nil
}
