package coregex

import (
	"regexp/syntax"
	"strings"
	"unicode/utf8"
)

// minKeywordLen is the shortest literal worth indexing in the prefilter.
const minKeywordLen = 4

// RequiredKeyword returns the longest literal that must occur in any match
// of pattern, lower-cased. It returns "" when no usable literal exists and
// the rule has to run on every input.
func RequiredKeyword(pattern string) string {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return ""
	}
	kw := strings.ToLower(requiredLiteral(re))
	if !usableKeyword(kw) {
		return ""
	}
	return kw
}

func requiredLiteral(re *syntax.Regexp) string {
	switch re.Op {
	case syntax.OpLiteral:
		return string(re.Rune)
	case syntax.OpConcat:
		var best string
		for _, sub := range re.Sub {
			if candidate := requiredLiteral(sub); len(candidate) > len(best) {
				best = candidate
			}
		}
		return best
	case syntax.OpCapture, syntax.OpPlus:
		return requiredLiteral(re.Sub[0])
	case syntax.OpRepeat:
		if re.Min > 0 {
			return requiredLiteral(re.Sub[0])
		}
		return ""
	default:
		return ""
	}
}

func usableKeyword(kw string) bool {
	if len(kw) < minKeywordLen {
		return false
	}
	// Runs of one character ("-----") occur everywhere.
	first, _ := utf8.DecodeRuneInString(kw)
	return strings.TrimLeft(kw, string(first)) != ""
}
