package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var (
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugInvalid    = regexp.MustCompile(`[^a-z0-9_\-]+`)
	slugDashes     = regexp.MustCompile(`-{2,}`)
)

// Slugify lowercases s, turns whitespace into hyphens and drops everything
// that is not a letter, digit, underscore or hyphen.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// UniqueSlug returns Slugify(name) followed by a random 4 digit suffix.
func UniqueSlug(name string) string {
	base := Slugify(name)
	if base == "" {
		base = "project"
	}
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		n = big.NewInt(0)
	}
	return fmt.Sprintf("%s-%04d", base, n.Int64())
}
