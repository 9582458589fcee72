// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug normalizes free text into ASCII identifiers.
//
// [From] produces URL slugs ("Café da manhã" → "cafe-da-manha"), used for
// internal card pages. [Pascal] produces icon component names
// ("book-open" → "BookOpen").
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	multiHyphen     = regexp.MustCompile(`-{2,}`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD and removes combining marks (é → e).
// 2. Converts to lowercase.
// 3. Replaces non-alphanumeric characters with hyphens.
// 4. Collapses multiple hyphens and trims leading/trailing hyphens.
func From(s string) string {
	result := stripMarks(s)
	result = strings.ToLower(result)

	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, result)

	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Pascal converts kebab, snake, spaced or camel text into PascalCase.
//
//	Pascal("book-open")      == "BookOpen"
//	Pascal("arrow_up_right") == "ArrowUpRight"
//	Pascal("BookOpen")       == "BookOpen"
func Pascal(s string) string {
	// Casers are stateful and not safe to share.
	caser := cases.Title(language.Und)

	var builder strings.Builder
	for _, word := range strings.Split(From(splitCamel(stripMarks(s))), "-") {
		if word == "" {
			continue
		}
		builder.WriteString(caser.String(word))
	}
	return builder.String()
}

// splitCamel inserts a hyphen at each lower-to-upper boundary.
func splitCamel(s string) string {
	var builder strings.Builder
	var previous rune
	for index, r := range s {
		if index > 0 && unicode.IsUpper(r) && (unicode.IsLower(previous) || unicode.IsDigit(previous)) {
			builder.WriteRune('-')
		}
		builder.WriteRune(r)
		previous = r
	}
	return builder.String()
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)
	return result
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
