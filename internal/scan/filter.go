package scan

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Suffixes decides whether a file name qualifies by its suffix.
// Entries prefixed with '!' disqualify a file even when a positive suffix matches.
// An empty set of positive suffixes lets every file through.
type Suffixes struct {
	include map[string]struct{}
	exclude map[string]struct{}
}

// NewSuffixes parses a list such as [".go", ".md", "!_test.go"].
func NewSuffixes(list []string) Suffixes {
	s := Suffixes{
		include: make(map[string]struct{}, len(list)),
		exclude: make(map[string]struct{}),
	}

	for _, e := range list { //nolint:varnamelen // e is standard for element in range
		e = strings.TrimSpace(strings.Trim(e, "'\""))
		if e == "" {
			continue
		}

		if strings.HasPrefix(e, "!") {
			s.exclude[strings.TrimPrefix(e, "!")] = struct{}{}
		} else {
			s.include[e] = struct{}{}
		}
	}

	return s
}

// Match reports whether name passes the suffix filter.
func (s Suffixes) Match(name string) bool {
	for ext := range s.exclude {
		if strings.HasSuffix(name, ext) {
			return false
		}
	}

	if len(s.include) == 0 {
		return true
	}

	for ext := range s.include {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}

	return false
}

// nameSet builds a lookup set of directory names, dropping blanks.
func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))

	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}

		set[n] = struct{}{}
	}

	return set
}

// matchPattern returns the first pattern matching the slash-separated path.
func matchPattern(path string, patterns []*regexp.Regexp) *regexp.Regexp {
	if len(patterns) == 0 {
		return nil
	}

	fPath := filepath.ToSlash(path)

	for _, re := range patterns {
		if re.MatchString(fPath) {
			return re
		}
	}

	return nil
}
