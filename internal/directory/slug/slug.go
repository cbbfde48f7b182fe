// Package slug derives URL-safe page-path keys from company names and
// turns incoming path segments back into lookup candidates.
package slug

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const fallback = "unknown-company"

var (
	specials     = regexp.MustCompile(`[^\w\s&.-]`)
	spaces       = regexp.MustCompile(`\s+`)
	multiHyphen  = regexp.MustCompile(`-+`)
	edgeHyphens  = regexp.MustCompile(`^-|-$`)
	validPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Generate builds a slug from a company name: specials stripped, spaces
// hyphenated, hyphen runs collapsed, lowercased, URL-escaped. Names that
// clean down to nothing yield a stable fallback slug.
func Generate(name string) string {
	cleaned := strings.TrimSpace(name)
	if cleaned == "" {
		return fallback
	}
	cleaned = specials.ReplaceAllString(cleaned, "")
	cleaned = spaces.ReplaceAllString(cleaned, "-")
	cleaned = multiHyphen.ReplaceAllString(cleaned, "-")
	cleaned = edgeHyphens.ReplaceAllString(cleaned, "")
	cleaned = strings.ToLower(cleaned)
	if cleaned == "" {
		return fallback
	}
	return url.PathEscape(cleaned)
}

// Unique appends a numeric suffix until the slug does not collide with any
// of the existing ones.
func Unique(name string, existing []string) string {
	taken := make(map[string]bool, len(existing))
	for _, s := range existing {
		taken[s] = true
	}
	base := Generate(name)
	candidate := base
	for counter := 1; taken[candidate]; counter++ {
		candidate = base + "-" + strconv.Itoa(counter)
	}
	return candidate
}

// ToName converts a path segment back into a candidate company name by
// unescaping and de-hyphenating it. Undecodable segments are used as-is.
func ToName(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		decoded = s
	}
	return strings.ReplaceAll(decoded, "-", " ")
}

// IsValid reports whether a path segment decodes to a well-formed slug.
func IsValid(s string) bool {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return false
	}
	return validPattern.MatchString(decoded)
}
