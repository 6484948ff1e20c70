package core

import (
	"sync"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/klauern/railguard/internal/config"
)

// patternTimeout bounds a single match attempt against one context string.
const patternTimeout = 250 * time.Millisecond

type compiledPattern struct {
	re  *regexp2.Regexp
	err error
}

// PatternCache memoises compiled rule patterns, including failures.
type PatternCache struct {
	entries sync.Map
}

// Compile returns the compiled pattern or the compile error.
func (c *PatternCache) Compile(pattern string) (*regexp2.Regexp, error) {
	if v, ok := c.entries.Load(pattern); ok {
		cp := v.(compiledPattern)
		return cp.re, cp.err
	}
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err == nil {
		re.MatchTimeout = patternTimeout
	}
	v, _ := c.entries.LoadOrStore(pattern, compiledPattern{re: re, err: err})
	cp := v.(compiledPattern)
	return cp.re, cp.err
}

// matchString reports whether pattern matches s. Invalid patterns and match
// timeouts count as no match; ok is false when the pattern didn't compile.
func (c *PatternCache) matchString(pattern, s string) (matched, ok bool) {
	re, err := c.Compile(pattern)
	if err != nil {
		return false, false
	}
	m, err := re.MatchString(s)
	if err != nil {
		return false, true
	}
	return m, true
}

// Matcher evaluates rule predicates against a tool invocation.
type Matcher struct {
	Extractor Extractor
	Patterns  *PatternCache
}

// NewMatcher creates a Matcher using the given shell tool name.
func NewMatcher(shellTool string) *Matcher {
	return &Matcher{
		Extractor: Extractor{ShellTool: shellTool},
		Patterns:  &PatternCache{},
	}
}

var defaultMatcher = NewMatcher("")

// Matches reports whether rule applies to the invocation: no context or no
// pattern match unconditionally; otherwise pattern and includes must match
// the extracted string and excludes must not.
func (m *Matcher) Matches(rule config.Rule, toolName string, input ToolInput) bool {
	if rule.Context == "" || rule.Pattern == "" {
		return true
	}

	value, ok := m.Extractor.Extract(rule.Context, toolName, input)
	if !ok {
		return false
	}

	if matched, _ := m.Patterns.matchString(rule.Pattern, value); !matched {
		return false
	}
	if rule.Includes != "" {
		if matched, _ := m.Patterns.matchString(rule.Includes, value); !matched {
			return false
		}
	}
	if rule.Excludes != "" {
		if matched, valid := m.Patterns.matchString(rule.Excludes, value); valid && matched {
			return false
		}
	}
	return true
}

// Matches uses a package-level Matcher with the default shell tool.
func Matches(rule config.Rule, toolName string, input ToolInput) bool {
	return defaultMatcher.Matches(rule, toolName, input)
}
