// Package terms extracts salient lexical terms from free-text queries and scores text against them.
package terms

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTerms is the maximum number of key terms returned by Extract.
const MaxTerms = 10

// minTermLength is exclusive: terms must be longer than this many runes.
const minTermLength = 3

var stopwords = map[string]struct{}{
	"about": {}, "above": {}, "after": {}, "again": {}, "against": {}, "also": {},
	"been": {}, "before": {}, "being": {}, "below": {}, "between": {}, "both": {},
	"could": {}, "does": {}, "doing": {}, "down": {}, "during": {}, "each": {},
	"from": {}, "further": {}, "have": {}, "having": {}, "here": {}, "hers": {},
	"herself": {}, "himself": {}, "into": {}, "itself": {}, "just": {}, "more": {},
	"most": {}, "myself": {}, "near": {}, "once": {}, "only": {}, "other": {},
	"ought": {}, "ours": {}, "ourselves": {}, "over": {}, "same": {}, "should": {},
	"some": {}, "such": {}, "than": {}, "that": {}, "their": {}, "theirs": {},
	"them": {}, "themselves": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "those": {}, "through": {}, "under": {}, "until": {}, "very": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "while": {}, "whom": {},
	"why": {}, "will": {}, "with": {}, "would": {}, "your": {}, "yours": {},
	"yourself": {}, "yourselves": {}, "were": {}, "want": {}, "need": {}, "please": {},
	"tell": {}, "show": {}, "know": {}, "like": {}, "there's": {},
}

// Extract returns up to MaxTerms lowercase key terms from query, in order of first appearance.
// Tokens of three runes or fewer and stopwords are dropped; duplicates collapse.
// An empty result means the query carries no lexical signal.
func Extract(query string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	out := make([]string, 0, MaxTerms)
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) <= minTermLength {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
		if len(out) == MaxTerms {
			break
		}
	}
	return out
}

// CountOccurrences sums the case-insensitive, non-overlapping occurrences of every term in text.
func CountOccurrences(text string, keyTerms []string) int {
	if len(keyTerms) == 0 || text == "" {
		return 0
	}
	lower := strings.ToLower(text)
	n := 0
	for _, t := range keyTerms {
		if t == "" {
			continue
		}
		n += strings.Count(lower, strings.ToLower(t))
	}
	return n
}

// Score is the lexical relevance of text: 0.1 per occurrence, capped at 1.
func Score(text string, keyTerms []string) float64 {
	return min(1.0, 0.1*float64(CountOccurrences(text, keyTerms)))
}

// ContainsAny reports whether any term is a case-insensitive substring of text.
func ContainsAny(text string, keyTerms []string) bool {
	lower := strings.ToLower(text)
	for _, t := range keyTerms {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
