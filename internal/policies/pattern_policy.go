package policies

import (
	"strings"

	"github.com/gobwas/glob"
)

// PatternList is a compiled list of shell-style wildcard patterns. A "*"
// matches any run of characters including "/", so patterns work on ids,
// package names and URLs alike. Patterns that fail to compile are dropped.
type PatternList struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	raw  string
	glob glob.Glob
}

func NewPatternList(patterns []string) PatternList {
	list := PatternList{}
	for _, pattern := range patterns {
		compiled, ok := compilePattern(pattern)
		if !ok {
			continue
		}
		list.patterns = append(list.patterns, compiled)
	}
	return list
}

// Match returns the first pattern that matches value.
func (l PatternList) Match(value string) (string, bool) {
	for _, pattern := range l.patterns {
		if pattern.glob.Match(value) {
			return pattern.raw, true
		}
	}
	return "", false
}

func (l PatternList) Len() int {
	return len(l.patterns)
}

func compilePattern(pattern string) (compiledPattern, bool) {
	trimmed := strings.TrimSpace(pattern)
	if trimmed == "" {
		return compiledPattern{}, false
	}
	compiled, err := glob.Compile(trimmed)
	if err != nil {
		return compiledPattern{}, false
	}
	return compiledPattern{raw: trimmed, glob: compiled}, true
}
