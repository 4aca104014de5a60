// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package xstrings provides extensions to the standard strings package.
package xstrings

import (
	"strings"
	"unicode"
)

// ToLowerCamel converts a human-readable name to a lowerCamelCase key.
//
// Parentheses are removed, the remainder is split into words on any run of characters
// that are neither letters nor digits and on case boundaries, runs of single-character
// words are joined (so "P/L" becomes one word), and the words are joined with the first
// letter of every word after the first capitalized.
//
// ToLowerCamel is idempotent.
//
//	"Realized & Unrealized Performance Summary" -> "realizedUnrealizedPerformanceSummary"
//	"Forex P/L Details"                         -> "forexPlDetails"
//	"Total (All Assets)"                        -> "totalAllAssets"
//	"ClientAccountID"                           -> "clientAccountId"
func ToLowerCamel(s string) string {
	words := mergeSingleCharacterWords(splitWords(s))
	var builder strings.Builder
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		if i > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		builder.WriteString(string(runes))
	}
	return builder.String()
}

// *** PRIVATE ***

func splitWords(s string) []string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = nil
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		if r == '(' || r == ')' {
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(current) > 0 && unicode.IsUpper(r) {
			previous := current[len(current)-1]
			switch {
			case unicode.IsLower(previous) || unicode.IsDigit(previous):
				// fooBar, item2Name
				flush()
			case unicode.IsUpper(previous) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				// IDName
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return words
}

func mergeSingleCharacterWords(words []string) []string {
	merged := make([]string, 0, len(words))
	var run strings.Builder
	for _, word := range words {
		if len([]rune(word)) == 1 {
			run.WriteString(word)
			continue
		}
		if run.Len() > 0 {
			merged = append(merged, run.String())
			run.Reset()
		}
		merged = append(merged, word)
	}
	if run.Len() > 0 {
		merged = append(merged, run.String())
	}
	return merged
}
