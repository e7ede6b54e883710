// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package match

import (
	"strings"
	"unicode"
)

var nameStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "&": true,
	"of": true, "at": true, "in": true, "on": true,
}

var streetSuffixes = map[string]bool{
	"street": true, "st": true,
	"avenue": true, "ave": true,
	"road": true, "rd": true,
	"drive": true, "dr": true,
	"lane": true, "ln": true,
	"boulevard": true, "blvd": true,
}

// NormalizeName lower-cases s, strips punctuation, collapses whitespace and
// drops stopwords. "The Coffee & Tea House" becomes "coffee tea house".
func NormalizeName(s string) string {
	// "&" is checked as a whole token before punctuation is stripped.
	fields := strings.Fields(strings.ToLower(s))
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if nameStopwords[f] {
			continue
		}
		f = stripPunct(f)
		if f == "" || nameStopwords[f] {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// NormalizeAddress lower-cases s, strips punctuation and drops street-type
// words, so "12 Baker St." and "12 baker street" compare equal.
func NormalizeAddress(s string) string {
	fields := strings.Fields(stripPunct(strings.ToLower(s)))
	kept := fields[:0]
	for _, f := range fields {
		if !streetSuffixes[f] {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

// leadingSegment returns the trimmed, lower-cased text before the first comma.
func leadingSegment(address string) string {
	seg, _, _ := strings.Cut(address, ",")
	return strings.ToLower(strings.TrimSpace(seg))
}

// stripPunct removes everything except letters, digits and whitespace.
func stripPunct(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}
