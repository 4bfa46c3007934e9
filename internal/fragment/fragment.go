// Package fragment locates translatable double-quoted fragments inside a
// line of an A2L/Damos file. Matching is non-greedy: a fragment ends at the
// nearest following quote, so fragments never span a quote character.
//
// The scanner does not understand escaped quotes and does not balance an
// odd number of quotes on a line; it only runs the pattern match. A line
// with unbalanced quotes pairs them left to right and leaves the trailing
// unpaired quote untouched.
package fragment

import (
	"regexp"
	"strings"
)

// quoted matches one double-quoted region, non-greedy.
var quoted = regexp.MustCompile(`"(.*?)"`)

// HasQuote reports whether line contains a double-quote character at all.
// Lines without one carry no fragments and can be skipped without running
// the pattern match.
func HasQuote(line string) bool {
	return strings.Contains(line, `"`)
}

// Find returns the contents of every quoted fragment in line, in order of
// appearance. The returned strings exclude the quote delimiters.
func Find(line string) []string {
	if !HasQuote(line) {
		return nil
	}

	matches := quoted.FindAllStringSubmatch(line, -1)
	if matches == nil {
		return nil
	}

	frags := make([]string, len(matches))
	for i, m := range matches {
		frags[i] = m[1]
	}
	return frags
}

// Replace rewrites every quoted fragment in line through repl, called with
// the fragment contents (delimiters excluded) in left-to-right order. The
// replacement is re-wrapped in the original quote delimiters; all text
// outside fragments is returned unmodified.
func Replace(line string, repl func(inner string) string) string {
	if !HasQuote(line) {
		return line
	}

	return quoted.ReplaceAllStringFunc(line, func(match string) string {
		inner := match[1 : len(match)-1]
		return `"` + repl(inner) + `"`
	})
}
