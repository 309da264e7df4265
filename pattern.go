package pars

// PatternRule is a named regular expression of the pattern library.
type PatternRule struct {
	// Label is the human-readable rule name, e.g. "JWT" or "Promo Code".
	Label string

	// Mode is the extraction mode the rule belongs to.
	Mode Mode

	// Group optionally sub-categorizes rules within a mode.
	Group string

	// Pattern is the source expression.
	Pattern string
}

// RuleMatch is a single match of a rule against a text.
type RuleMatch struct {
	Rule PatternRule
	Text string
}

// PatternLibrary is the immutable catalog of extraction rules. It is loaded
// once and safe for concurrent use.
type PatternLibrary interface {
	// RulesFor returns the ordered rules of a mode.
	RulesFor(mode Mode) []PatternRule

	// Match applies the rules of a mode to text in rule order and returns
	// every match in the order found.
	Match(mode Mode, text string) []RuleMatch
}
