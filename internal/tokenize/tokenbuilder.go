package tokenize

import (
	"strings"

	"github.com/folgplaces/standardizer/internal/config"
)

// Token holds the pair a level's word list reduces to: NameToken is the
// word-index lookup key, TypeToken (optional) disambiguates between
// same-named candidates at the hit.
type Token struct {
	NameToken string
	TypeToken string
	HasType   bool
}

// BuildToken runs the right-to-left token-builder algorithm over
// words[wordsToSkip:], concatenating the non-type prefix into NameToken and
// any trailing type words into TypeToken. A single-word level (after
// skipping) is left unabbreviated, so a bare place name that happens to
// collide with an abbreviation (e.g. "No" in "No, Niigata, Japan") is not
// silently rewritten. "now" (as in "Fooville now Barville") always halts
// the scan, even as the first word seen; "or" only halts once something has
// already been buffered and the scan has moved past wordsToSkip -- an "or"
// sitting exactly at the skip boundary is folded into the name instead.
func BuildToken(cfg *config.StandardizerConfig, words []string, wordsToSkip int) Token {
	var buf, typeToken strings.Builder
	foundNameWord := false
	hasType := false
	multiWord := len(words)-wordsToSkip > 1

	for i := len(words) - 1; i >= wordsToSkip; i-- {
		word := words[i]
		if word == "" {
			continue
		}
		if (i > wordsToSkip && buf.Len() > 0 && word == "or") || word == "now" {
			break
		}

		if multiWord {
			if expansion, ok := cfg.Abbreviations[word]; ok {
				word = expansion
			}
		}

		if !IsTypeWord(cfg, word) {
			if !foundNameWord && buf.Len() > 0 {
				typeToken.WriteString(buf.String())
				hasType = true
				buf.Reset()
			}
			foundNameWord = true
		}

		buf2 := word + buf.String()
		buf.Reset()
		buf.WriteString(buf2)
	}

	return Token{
		NameToken: buf.String(),
		TypeToken: typeToken.String(),
		HasType:   hasType,
	}
}

// IsTypeWord expands word via the abbreviations map first (so "cnty" tests
// as "county") and then tests set membership.
func IsTypeWord(cfg *config.StandardizerConfig, word string) bool {
	if expansion, ok := cfg.Abbreviations[word]; ok {
		word = expansion
	}
	return cfg.TypeWords[word]
}
