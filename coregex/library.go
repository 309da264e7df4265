// Package coregex implements pars.PatternLibrary on top of the coregex
// regular expression engine. Rules are read from an embedded YAML catalog,
// compiled once, and prefiltered with an Aho-Corasick keyword matcher.
package coregex

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/IDGORRU/pars"
	"github.com/cloudflare/ahocorasick"
	"github.com/coregx/coregex"
	"gopkg.in/yaml.v3"
)

//go:embed patterns/*.yaml
var catalog embed.FS

// Ensure Library implements pars.PatternLibrary at compile time.
var _ pars.PatternLibrary = (*Library)(nil)

type catalogFile struct {
	Mode  string         `yaml:"mode"`
	Rules []ruleTemplate `yaml:"rules"`
}

type ruleTemplate struct {
	Label   string `yaml:"label"`
	Group   string `yaml:"group"`
	Pattern string `yaml:"pattern"`
}

type compiledRule struct {
	rule    pars.PatternRule
	keyword string

	// The lazy DFA of a coregex.Regexp is not safe for concurrent use.
	mu sync.Mutex
	re *coregex.Regexp
}

func (r *compiledRule) findAll(b []byte) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.re.FindAll(b, -1)
}

// family holds the ordered rules of one mode and their keyword prefilter.
type family struct {
	rules []*compiledRule

	mu       sync.Mutex
	matcher  *ahocorasick.Matcher
	keywords map[int][]int // matcher index -> rule indices
}

// triggered returns the indices of keyword rules whose keyword occurs in
// text.
func (f *family) triggered(text string) map[int]bool {
	hits := make(map[int]bool)
	if f.matcher == nil {
		return hits
	}
	lower := []byte(strings.ToLower(text))

	f.mu.Lock()
	matches := f.matcher.Match(lower)
	f.mu.Unlock()

	for _, m := range matches {
		for _, idx := range f.keywords[m] {
			hits[idx] = true
		}
	}
	return hits
}

// Library is an immutable catalog of compiled rules grouped by mode.
type Library struct {
	families map[pars.Mode]*family
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
	defaultErr  error
)

// Default returns the process-wide library built from the embedded catalog.
// The catalog is compiled on first use only.
func Default() (*Library, error) {
	defaultOnce.Do(func() {
		defaultLib, defaultErr = Load(catalog, "patterns")
	})
	return defaultLib, defaultErr
}

// Load compiles every *.yaml catalog file found in dir of fsys. Files are
// read in lexical order and rules keep their listed order.
func Load(fsys fs.FS, dir string) (*Library, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read pattern catalog: %w", err)
	}

	lib := &Library{families: make(map[pars.Mode]*family)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		name := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		mode, err := pars.ParseMode(file.Mode)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		f := lib.families[mode]
		if f == nil {
			f = &family{}
			lib.families[mode] = f
		}
		for _, tmpl := range file.Rules {
			rule, err := compileRule(mode, tmpl)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", name, tmpl.Label, err)
			}
			f.rules = append(f.rules, rule)
		}
	}

	for _, f := range lib.families {
		f.buildPrefilter()
	}
	return lib, nil
}

func compileRule(mode pars.Mode, tmpl ruleTemplate) (*compiledRule, error) {
	if tmpl.Label == "" {
		return nil, fmt.Errorf("rule label required")
	}
	// The engine's literal prefilter drops case folding, so it is disabled
	// and the family keyword matcher does the skipping instead.
	cfg := coregex.DefaultConfig()
	cfg.EnablePrefilter = false
	re, err := coregex.CompileWithConfig(tmpl.Pattern, cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid regex: %w", err)
	}
	return &compiledRule{
		rule: pars.PatternRule{
			Label:   tmpl.Label,
			Mode:    mode,
			Group:   tmpl.Group,
			Pattern: tmpl.Pattern,
		},
		keyword: RequiredKeyword(tmpl.Pattern),
		re:      re,
	}, nil
}

func (f *family) buildPrefilter() {
	var keywords []string
	index := make(map[string]int)
	f.keywords = make(map[int][]int)

	for i, r := range f.rules {
		if r.keyword == "" {
			continue
		}
		idx, ok := index[r.keyword]
		if !ok {
			idx = len(keywords)
			keywords = append(keywords, r.keyword)
			index[r.keyword] = idx
		}
		f.keywords[idx] = append(f.keywords[idx], i)
	}
	if len(keywords) > 0 {
		f.matcher = ahocorasick.NewStringMatcher(keywords)
	}
}

// RulesFor returns the ordered rules of mode.
func (l *Library) RulesFor(mode pars.Mode) []pars.PatternRule {
	f := l.families[mode]
	if f == nil {
		return nil
	}
	rules := make([]pars.PatternRule, 0, len(f.rules))
	for _, r := range f.rules {
		rules = append(rules, r.rule)
	}
	return rules
}

// Match applies the rules of mode to text in rule order. Rules with a
// required keyword are skipped when the keyword is absent from text.
func (l *Library) Match(mode pars.Mode, text string) []pars.RuleMatch {
	f := l.families[mode]
	if f == nil || text == "" {
		return nil
	}

	hits := f.triggered(text)
	b := []byte(text)

	var matches []pars.RuleMatch
	for i, r := range f.rules {
		if r.keyword != "" && !hits[i] {
			continue
		}
		for _, m := range r.findAll(b) {
			matches = append(matches, pars.RuleMatch{Rule: r.rule, Text: string(m)})
		}
	}
	return matches
}
