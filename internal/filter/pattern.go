package filter

import (
	"strings"

	"github.com/gobwas/glob"
)

const segmentSeparator = '.'

// pathPattern matches object path names with glob rules. Path segments are
// separated by dots; a slash in a pattern is accepted as a separator too.
// A single star stays within one segment, a double star crosses segments and
// a question mark matches one character of a segment.
type pathPattern struct {
	raw       string
	globs     []glob.Glob
	segmented bool
}

func isGlob(value string) bool {
	return strings.ContainsAny(value, "*?[{")
}

func compilePattern(raw string) (pathPattern, bool) {
	pattern := normalizePattern(raw)
	if pattern == "" {
		return pathPattern{}, false
	}

	variants := expandZeroSegments(pattern)
	globs := make([]glob.Glob, 0, len(variants))
	for _, variant := range variants {
		g, err := glob.Compile(variant, segmentSeparator)
		if err != nil {
			return pathPattern{}, false
		}
		globs = append(globs, g)
	}
	return pathPattern{
		raw:       raw,
		globs:     globs,
		segmented: strings.ContainsRune(pattern, segmentSeparator),
	}, true
}

// Match reports whether the object with the given path and name matches.
// Patterns without a separator also match the bare object name.
func (p pathPattern) Match(pathName, name string) bool {
	for _, g := range p.globs {
		if g.Match(pathName) {
			return true
		}
		if !p.segmented && g.Match(name) {
			return true
		}
	}
	return false
}

// expandZeroSegments lists the pattern with every "**." either kept or
// dropped, so a double star also stands for zero segments.
func expandZeroSegments(pattern string) []string {
	i := strings.Index(pattern, "**.")
	if i < 0 {
		return []string{pattern}
	}
	rest := expandZeroSegments(pattern[i+3:])
	out := make([]string, 0, 2*len(rest))
	for _, tail := range rest {
		out = append(out, pattern[:i+3]+tail, pattern[:i]+tail)
	}
	return out
}

func normalizePattern(value string) string {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, "/", ".")
	value = strings.Trim(value, ".")
	return value
}
