package tokenize

import (
	"strings"
	"unicode"

	"github.com/folgplaces/standardizer/internal/debug"
)

// DefaultNormalizer is a concrete Normalizer: lowercase, strip punctuation,
// split on commas into levels, split each level on whitespace into words.
// The debug-timed pipeline shape (header/output/footer around the work)
// mirrors the rest of this codebase's debug-flagged pipelines; the rune
// filter for punctuation stripping is the only normalization rule a
// place-name tokenizer needs, unlike a postal-address normalizer's
// abbreviation and postcode rules.
type DefaultNormalizer struct {
	Debug bool
}

// NewDefaultNormalizer returns a normalizer with debug output controlled by
// debug -- each Tokenize call logs its input, computed levels, and timing
// when debug is true.
func NewDefaultNormalizer(debug bool) *DefaultNormalizer {
	return &DefaultNormalizer{Debug: debug}
}

func (n *DefaultNormalizer) Tokenize(text string) [][]string {
	debug.DebugHeader(n.Debug)
	defer debug.DebugFooter(n.Debug)

	debug.DebugOutput(n.Debug, "Input: %s", text)

	rawLevels := strings.Split(text, ",")
	levels := make([][]string, 0, len(rawLevels))
	for _, rawLevel := range rawLevels {
		var words []string
		for _, rawWord := range strings.Fields(rawLevel) {
			word := stripToAlnumLower(rawWord)
			if word != "" {
				words = append(words, word)
			}
		}
		levels = append(levels, words)
	}

	debug.DebugOutput(n.Debug, "Levels: %v", levels)
	return levels
}

func (n *DefaultNormalizer) Normalize(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripToAlnumLower lowercases word and drops every rune that is not a
// letter or digit -- punctuation is removed in place, not replaced with a
// space, so "St." becomes "st" rather than "st ".
func stripToAlnumLower(word string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(word) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
