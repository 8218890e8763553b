package threat

import (
	"regexp"
	"strings"
)

// heuristic is a structural check evaluated by bespoke logic. count returns
// how many times the heuristic fires; each firing yields one indicator and
// adds delta to the score.
type heuristic struct {
	id       string
	message  string
	severity Severity
	delta    int
	count    func(text string) int
}

// structuralHeuristics run after the pattern rules, in this order.
var structuralHeuristics = []heuristic{
	{
		id:       "excessive_punctuation",
		message:  "Excessive punctuation detected",
		severity: SeverityLow,
		delta:    punctuationDelta,
		count:    countRepeatedExclamation,
	},
	{
		id:       "excessive_capitals",
		message:  "Excessive use of capital letters",
		severity: SeverityLow,
		delta:    capsDelta,
		count:    countShouting,
	},
	{
		id:       "shortened_url",
		message:  "Shortened URL detected",
		severity: SeverityMedium,
		delta:    shortenerDelta,
		count:    countShortenedURLs,
	},
	{
		id:       "misspelling",
		message:  "Spelling errors detected",
		severity: SeverityLow,
		delta:    misspellingDelta,
		count:    countMisspellings,
	},
}

var (
	repeatedExclamation = regexp.MustCompile(`!{2,}`)
	capsWord            = regexp.MustCompile(`\b[A-Z]{3,}\b`)
	schemeHost          = regexp.MustCompile(`https?://[a-zA-Z0-9.-]+`)
)

// countRepeatedExclamation fires once when "!!" appears anywhere.
func countRepeatedExclamation(text string) int {
	if repeatedExclamation.MatchString(text) {
		return 1
	}
	return 0
}

// countShouting fires once when more than capsWordLimit whole words are
// written in three or more capital letters.
func countShouting(text string) int {
	// Only need to know whether the limit is exceeded.
	if len(capsWord.FindAllStringIndex(text, capsWordLimit+1)) > capsWordLimit {
		return 1
	}
	return 0
}

// countShortenedURLs fires once per http(s) URL whose scheme and host
// contain a shortener fragment. Matching is case-sensitive, so "HTTP://" and
// "BIT.LY" are not seen.
func countShortenedURLs(text string) int {
	n := 0
	for _, u := range schemeHost.FindAllString(text, -1) {
		if isShortener(u) {
			n++
		}
	}
	return n
}

func isShortener(schemeAndHost string) bool {
	for _, f := range shortenerFragments {
		if strings.Contains(schemeAndHost, f) {
			return true
		}
	}
	return false
}

// countMisspellings fires once per distinct misspelling present anywhere in
// the text, case-insensitively.
func countMisspellings(text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, w := range misspellings {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}
