package mock

import "github.com/IDGORRU/pars"

var _ pars.PatternLibrary = (*PatternLibrary)(nil)

// PatternLibrary is a mock implementation of pars.PatternLibrary.
type PatternLibrary struct {
	RulesForFn func(mode pars.Mode) []pars.PatternRule
	MatchFn    func(mode pars.Mode, text string) []pars.RuleMatch
}

func (l *PatternLibrary) RulesFor(mode pars.Mode) []pars.PatternRule {
	return l.RulesForFn(mode)
}

func (l *PatternLibrary) Match(mode pars.Mode, text string) []pars.RuleMatch {
	return l.MatchFn(mode, text)
}
