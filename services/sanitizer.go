package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Field length caps, shared by create and update paths.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxCategoryLength    = 50
	MaxImageURLLength    = 1000
)

var allowedRanges = []*unicode.RangeTable{unicode.L, unicode.N, unicode.P, unicode.Z}

// SanitizeAndTruncate normalizes the input to NFD, drops every rune
// outside the letter/number/punctuation/separator classes, trims
// surrounding whitespace and hard-truncates to maxLength runes.
func SanitizeAndTruncate(input string, maxLength int) string {
	decomposed := norm.NFD.String(input)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.IsOneOf(allowedRanges, r) {
			b.WriteRune(r)
		}
	}

	sanitized := strings.TrimSpace(b.String())
	if runes := []rune(sanitized); len(runes) > maxLength {
		sanitized = string(runes[:maxLength])
	}
	return sanitized
}
