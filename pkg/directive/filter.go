package directive

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/praetorian-inc/adocref/pkg/types"
)

// FilterConfig specifies include and exclude patterns for directive filtering.
type FilterConfig struct {
	Include []string // Regex patterns - only matching directives included
	Exclude []string // Regex patterns - matching directives excluded
}

// ParsePatterns splits a comma-separated string into individual patterns.
// Patterns are trimmed of whitespace.
func ParsePatterns(patterns string) []string {
	if patterns == "" {
		return []string{}
	}

	parts := strings.Split(patterns, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Filter applies include and exclude patterns to directive IDs.
// Include is applied first, then exclude. Empty include means "include all".
func Filter(directives []*types.Directive, config FilterConfig) ([]*types.Directive, error) {
	if len(directives) == 0 {
		return directives, nil
	}

	includeRegexes, err := compileAll(config.Include)
	if err != nil {
		return nil, err
	}
	excludeRegexes, err := compileAll(config.Exclude)
	if err != nil {
		return nil, err
	}

	filtered := directives
	if len(includeRegexes) > 0 {
		filtered = keep(filtered, func(d *types.Directive) bool { return matchesAny(d.ID, includeRegexes) })
	}
	if len(excludeRegexes) > 0 {
		filtered = keep(filtered, func(d *types.Directive) bool { return !matchesAny(d.ID, excludeRegexes) })
	}

	return filtered, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	var regexes []*regexp.Regexp
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		regexes = append(regexes, re)
	}
	return regexes, nil
}

func keep(directives []*types.Directive, pred func(*types.Directive) bool) []*types.Directive {
	result := make([]*types.Directive, 0, len(directives))
	for _, d := range directives {
		if pred(d) {
			result = append(result, d)
		}
	}
	return result
}

func matchesAny(id string, regexes []*regexp.Regexp) bool {
	for _, re := range regexes {
		if re.MatchString(id) {
			return true
		}
	}
	return false
}
