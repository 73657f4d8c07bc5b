package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

const maxSanitizePasses = 5

// SanitizeText strips every HTML element from user supplied text and trims
// the result. Entities are decoded so plain characters such as & and <
// survive, and decoding repeats until the text is stable, so entity-encoded
// markup is stripped as well.
func SanitizeText(s string) string {
	for i := 0; i < maxSanitizePasses; i++ {
		out := html.UnescapeString(strict.Sanitize(s))
		if out == s {
			return strings.TrimSpace(out)
		}
		s = out
	}
	// nested encoding deeper than the pass limit: drop angle brackets
	return strings.TrimSpace(strings.NewReplacer("<", "", ">", "").Replace(s))
}

// SanitizeList applies SanitizeText to each entry and drops empty ones.
func SanitizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = SanitizeText(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
