package files

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds the compiled glob and, for "**/" patterns, the glob
// with that prefix removed.
type compiledPattern struct {
	glob     glob.Glob
	rootGlob glob.Glob
}

// IgnoreRules decides which relative paths are left out of a listing.
// The zero value ignores nothing.
type IgnoreRules struct {
	patterns []compiledPattern
}

// NewIgnoreRules compiles glob patterns matched against slash-separated
// paths relative to the listing root.
func NewIgnoreRules(patterns []string) (*IgnoreRules, error) {
	rules := &IgnoreRules{}

	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		cp := compiledPattern{glob: g}

		// Root-level files also match "**/" patterns with the prefix removed, so
		// "**/*.blade.php" covers "index.blade.php" as users expect.
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			if rg, err := glob.Compile(rest, '/'); err == nil {
				cp.rootGlob = rg
			}
		}

		rules.patterns = append(rules.patterns, cp)
	}

	return rules, nil
}

// Match reports whether a file path is ignored.
func (r *IgnoreRules) Match(relPath string) bool {
	if r == nil {
		return false
	}

	rootLevel := !strings.Contains(relPath, "/")
	for _, cp := range r.patterns {
		if cp.glob.Match(relPath) {
			return true
		}
		if rootLevel && cp.rootGlob != nil && cp.rootGlob.Match(relPath) {
			return true
		}
	}

	return false
}

// MatchDir reports whether a whole directory is ignored. "vendor" matches
// "vendor/**".
func (r *IgnoreRules) MatchDir(relPath string) bool {
	return r.Match(relPath) || r.Match(relPath+"/**")
}
