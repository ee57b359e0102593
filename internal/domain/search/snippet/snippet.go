// Package snippet selects the most relevant excerpt of a passage for a set of key terms.
package snippet

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Ellipsis marks a snippet boundary that cuts through the original text.
const Ellipsis = "..."

// MaxRunes bounds the snippet length; longer windows are cut at a word boundary.
const MaxRunes = 800

// boundaryRe matches terminal punctuation followed by whitespace. Periods inside
// numbers and versions ("1.5", "v2.1") never match.
var boundaryRe = regexp.MustCompile(`[.!?]+\s+`)

// Extract returns the sentence with the most key terms plus its neighbours.
// Without any matching sentence the first two sentences are used.
// Whitespace-only text is returned unchanged.
func Extract(text string, keyTerms []string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	sentences := Split(text)
	if len(sentences) == 0 {
		return strings.TrimSpace(text)
	}

	best, bestScore := 0, 0
	for i, s := range sentences {
		if score := matchCount(s, keyTerms); score > bestScore {
			best, bestScore = i, score
		}
	}

	var window []string
	if bestScore > 0 {
		start := max(0, best-1)
		end := min(len(sentences), best+2)
		window = sentences[start:end]
	} else {
		window = sentences[:min(2, len(sentences))]
	}

	return decorate(truncate(strings.Join(window, " ")))
}

// Split breaks text into trimmed sentences. A sentence ends at terminal
// punctuation followed by whitespace and a word that does not start in
// lowercase ("e.g. a fence" stays whole), or at the end of text.
func Split(text string) []string {
	var raw []string
	prev := 0
	for _, loc := range boundaryRe.FindAllStringIndex(text, -1) {
		next, _ := utf8.DecodeRuneInString(text[loc[1]:])
		if unicode.IsLower(next) {
			continue
		}
		punctEnd := loc[0] + len(strings.TrimRightFunc(text[loc[0]:loc[1]], unicode.IsSpace))
		raw = append(raw, text[prev:punctEnd])
		prev = loc[1]
	}
	raw = append(raw, text[prev:])

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.Join(strings.Fields(s), " ")
		if s == "" || strings.Trim(s, ".!?") == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// matchCount is the number of distinct key terms the sentence contains.
func matchCount(sentence string, keyTerms []string) int {
	lower := strings.ToLower(sentence)
	n := 0
	for _, t := range keyTerms {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			n++
		}
	}
	return n
}

func decorate(s string) string {
	first, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsUpper(first) && !unicode.IsDigit(first) {
		s = Ellipsis + s
	}
	if !endsTerminal(s) {
		s += Ellipsis
	}
	return s
}

func endsTerminal(s string) bool {
	last, _ := utf8.DecodeLastRuneInString(s)
	return last == '.' || last == '!' || last == '?'
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxRunes {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:MaxRunes])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:")
}
