package pars

import "strings"

// Mode selects which extractor runs against a fetched document.
type Mode string

// Extraction modes.
const (
	ModeEmail      Mode = "email"
	ModeLink       Mode = "link"
	ModeData       Mode = "data"
	ModeHTML       Mode = "html"
	ModeCredential Mode = "credential"
	ModeSecret     Mode = "secret"
	ModeGiftCode   Mode = "giftcode"
)

// Modes lists every extraction mode in display order.
var Modes = []Mode{
	ModeEmail,
	ModeLink,
	ModeData,
	ModeHTML,
	ModeCredential,
	ModeSecret,
	ModeGiftCode,
}

var modeAliases = map[string]Mode{
	"links":       ModeLink,
	"structured":  ModeData,
	"inventory":   ModeHTML,
	"credentials": ModeCredential,
	"secrets":     ModeSecret,
	"keys":        ModeSecret,
	"gift":        ModeGiftCode,
	"emails":      ModeEmail,
}

// ParseMode converts a mode name or alias into a Mode.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, m := range Modes {
		if string(m) == name {
			return m, nil
		}
	}
	if m, ok := modeAliases[name]; ok {
		return m, nil
	}
	return "", Errorf(EINVALID, "unknown extraction mode %q", s)
}

// Validate returns an error if m is not a known mode.
func (m Mode) Validate() error {
	for _, known := range Modes {
		if m == known {
			return nil
		}
	}
	return Errorf(EINVALID, "unknown extraction mode %q", string(m))
}

// Positional reports whether records of this mode are kept in document
// order without identity deduplication.
func (m Mode) Positional() bool {
	return m == ModeData || m == ModeHTML
}
