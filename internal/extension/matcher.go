package extension

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/maypok86/otter"
)

// DefaultMatcherCapacity bounds the number of compiled symbol patterns kept in memory.
const DefaultMatcherCapacity = 65536

// Matcher tests source text for whole-word occurrences of symbol names.
// Compiled patterns are cached per symbol. A Matcher is safe for concurrent use.
type Matcher struct {
	patterns otter.Cache[string, *regexp.Regexp]
}

// NewMatcher creates a matcher whose pattern cache holds up to capacity symbols.
func NewMatcher(capacity int) (*Matcher, error) {
	if capacity <= 0 {
		capacity = DefaultMatcherCapacity
	}

	cache, err := otter.MustBuilder[string, *regexp.Regexp](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build pattern cache: %w", err)
	}

	return &Matcher{patterns: cache}, nil
}

// Matches reports whether symbol occurs in content with no word character
// (letter, digit or underscore) directly before or after it. The symbol is
// matched literally and case-sensitively. An empty symbol never matches.
func (m *Matcher) Matches(content, symbol string) bool {
	if symbol == "" {
		return false
	}

	pattern, ok := m.patterns.Get(symbol)
	if !ok {
		pattern = compileSymbol(symbol)
		m.patterns.Set(symbol, pattern)
	}

	return pattern.MatchString(content)
}

// Close releases the pattern cache.
func (m *Matcher) Close() {
	m.patterns.Close()
}

func compileSymbol(symbol string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(symbol) + `\b`)
}

var (
	defaultMatcher     *Matcher
	defaultMatcherOnce sync.Once
)

// sharedMatcher is the matcher of scanners built without WithMatcher.
func sharedMatcher() *Matcher {
	defaultMatcherOnce.Do(func() {
		m, err := NewMatcher(DefaultMatcherCapacity)
		if err != nil {
			panic(err)
		}
		defaultMatcher = m
	})
	return defaultMatcher
}
