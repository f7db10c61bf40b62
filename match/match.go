// Package match filters path lists with the pattern language used on the
// command line. A pattern is one or more terms separated by "|", applied
// in order as a logical AND:
//
//   - "foo"        fuzzy match (default)
//   - "/\.go$"     regular expression
//   - "=a/b.go"    exact path
//   - "src/**/*.go" glob, chosen when the term contains glob metacharacters
//   - "!term"      negation: drop paths the inner term matches
//
// "./" prefixes are stripped; "../" is rejected.
package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sahilm/fuzzy"
)

// Matcher narrows a path list to the entries it accepts, preserving input
// order.
type Matcher interface {
	Match(paths []string) ([]string, error)
}

// FuzzyMatcher matches paths fuzzily, the default term behavior.
type FuzzyMatcher struct {
	Pattern string
}

func (m FuzzyMatcher) Match(paths []string) ([]string, error) {
	if m.Pattern == "" {
		return paths, nil
	}
	hits := make(map[int]bool)
	for _, match := range fuzzy.Find(m.Pattern, paths) {
		hits[match.Index] = true
	}
	return pickIndices(paths, hits), nil
}

// RegexMatcher matches paths against a compiled regular expression.
type RegexMatcher struct {
	re *regexp.Regexp
}

func NewRegexMatcher(expr string) (RegexMatcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return RegexMatcher{}, fmt.Errorf("invalid regex pattern '%s': %v", expr, err)
	}
	return RegexMatcher{re: re}, nil
}

func (m RegexMatcher) Match(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if m.re.MatchString(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// GlobMatcher matches shell-style globs, including "**".
type GlobMatcher struct {
	Pattern string
}

func NewGlobMatcher(pattern string) (GlobMatcher, error) {
	if !doublestar.ValidatePattern(pattern) {
		return GlobMatcher{}, fmt.Errorf("invalid glob pattern '%s'", pattern)
	}
	return GlobMatcher{Pattern: pattern}, nil
}

func (m GlobMatcher) Match(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		ok, err := doublestar.Match(m.Pattern, p)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern '%s': %v", m.Pattern, err)
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// ExactMatcher matches a single literal path.
type ExactMatcher struct {
	Path string
}

func (m ExactMatcher) Match(paths []string) ([]string, error) {
	for _, p := range paths {
		if p == m.Path {
			return []string{p}, nil
		}
	}
	return nil, nil
}

// compoundMatcher applies "|"-separated terms in sequence. Negated terms
// subtract their matches from the running set.
type compoundMatcher struct {
	terms []term
}

type term struct {
	matcher Matcher
	negate  bool
}

func (m compoundMatcher) Match(paths []string) ([]string, error) {
	current := paths
	for _, t := range m.terms {
		matched, err := t.matcher.Match(current)
		if err != nil {
			return nil, err
		}
		if t.negate {
			drop := make(map[string]bool, len(matched))
			for _, p := range matched {
				drop[p] = true
			}
			var kept []string
			for _, p := range current {
				if !drop[p] {
					kept = append(kept, p)
				}
			}
			current = kept
		} else {
			current = matched
		}
	}
	return current, nil
}

// ParsePattern compiles one command-line pattern into a Matcher.
func ParsePattern(pattern string) (Matcher, error) {
	parts := strings.Split(pattern, "|")
	terms := make([]term, 0, len(parts))
	for _, part := range parts {
		t := term{}
		if strings.HasPrefix(part, "!") {
			t.negate = true
			part = part[1:]
		}
		m, err := parseTerm(part)
		if err != nil {
			return nil, err
		}
		t.matcher = m
		terms = append(terms, t)
	}
	if len(terms) == 1 && !terms[0].negate {
		return terms[0].matcher, nil
	}
	return compoundMatcher{terms: terms}, nil
}

func parseTerm(raw string) (Matcher, error) {
	if strings.HasPrefix(raw, "../") {
		return nil, fmt.Errorf("pattern '%s' with '../' is not supported for security reasons", raw)
	}
	raw = strings.TrimPrefix(raw, "./")

	switch {
	case strings.HasPrefix(raw, "/"):
		return NewRegexMatcher(raw[1:])
	case strings.HasPrefix(raw, "="):
		return ExactMatcher{Path: raw[1:]}, nil
	case strings.ContainsAny(raw, "*?["):
		return NewGlobMatcher(raw)
	default:
		return FuzzyMatcher{Pattern: raw}, nil
	}
}

// Select returns the union, in input order, of the paths matched by each
// pattern. With no patterns every path is returned.
func Select(paths []string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return paths, nil
	}
	hits := make(map[string]bool)
	for _, pattern := range patterns {
		m, err := ParsePattern(pattern)
		if err != nil {
			return nil, err
		}
		matched, err := m.Match(paths)
		if err != nil {
			return nil, err
		}
		for _, p := range matched {
			hits[p] = true
		}
	}
	var out []string
	for _, p := range paths {
		if hits[p] {
			out = append(out, p)
		}
	}
	return out, nil
}

func pickIndices(paths []string, hits map[int]bool) []string {
	var out []string
	for i, p := range paths {
		if hits[i] {
			out = append(out, p)
		}
	}
	return out
}
