package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeSpace collapses runs of whitespace into single spaces and
// trims the result. NBSP (the portal pads numbers with it) counts as
// whitespace here.
func NormalizeSpace(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.Trim(s, " ")
}

// NormalizeName lowercases and strips all whitespace, for loose
// matching of portal labels.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "")
	return whitespaceRegex.ReplaceAllString(name, "")
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}
