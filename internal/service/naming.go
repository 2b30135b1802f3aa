package service

import (
	"strconv"
	"strings"
	"unicode"
)

// DeriveFileName builds the stored name of an uploaded file:
//
//	"P" + q + "-" + TITLE + " " + sanitized original name
//
// TITLE is stepTitle upper-cased with whitespace runs collapsed and trimmed.
// Identical inputs always yield identical names; no uniqueness is implied.
func DeriveFileName(q int, stepTitle, orig string) string {
	return "P" + strconv.Itoa(q) + "-" + normalizeStepTitle(stepTitle) + " " + SanitizeFileName(orig)
}

func normalizeStepTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}

// SanitizeFileName keeps word characters (letters, digits, marks, underscore),
// whitespace, dots and hyphens, dropping everything else.
func SanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		if keepRune(r) {
			return r
		}
		return -1
	}, name)
}

func keepRune(r rune) bool {
	switch {
	case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r), unicode.IsSpace(r):
		return true
	case r == '_', r == '.', r == '-':
		return true
	}
	return false
}
