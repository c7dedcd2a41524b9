// Package matcher resolves one input level's word list against the
// gazetteer's word index, narrowing a running candidate set level by level.
package matcher

import (
	"strings"

	"github.com/folgplaces/standardizer/internal/config"
	"github.com/folgplaces/standardizer/internal/gazetteer"
	"github.com/folgplaces/standardizer/internal/tokenize"
)

// State carries the level matcher's running narrowing state across the
// resolver's right-to-left walk over input levels.
type State struct {
	Current        []int
	Previous       []int
	LastFoundLevel int
}

// Result reports what MatchLevel did with one level so the resolver can
// update its state, re-insert skipped words as a new finer level, and
// decide which (if any) callback to fire.
type Result struct {
	NameToken string
	TypeToken string
	HasType   bool

	// ReinsertWords holds the skipped left-hand words (noise/type words
	// dropped) that must be re-tried as a new input level placed just
	// before this one (the finer side, visited next by the resolver). Empty
	// when skip was 0 or nothing survived the drop.
	ReinsertWords []string

	// Found is true iff this level ends up accepting a new candidate set
	// (a word-index hit survived subplace filtering / parent-skip
	// backoff). It drives last_found_level.
	Found bool

	// NoStateChange is true when this level contributed nothing at all --
	// either no word-index hit was found, or one was found but every
	// filtering path rejected it with no rescue. The resolver must leave
	// (previous, current) exactly as they were, as though this level had
	// not been processed.
	NoStateChange bool

	// Accepted is the narrowed id set this level produces. When
	// NoStateChange is true it echoes the state the resolver should keep
	// displaying for callback purposes, but the resolver must not write it
	// back into State.Current.
	Accepted []int

	// IgnoreTypeToken is true when this level's match was rejected and the
	// resolver fell back to the prior accepted set: this level's type_token
	// does not describe that set, so no type disambiguation is applied to it.
	IgnoreTypeToken bool

	// Event names which callback (if any) this level produced: one of "",
	// "tokenNotFound", "skippingParentLevel", "typeNotFound".
	Event    string
	EventIDs []int
}

// MatchLevel runs the word-skip lookup, subplace filtering, parent-skip
// backoff, and type disambiguation for one level's words against state.
func MatchLevel(gz gazetteer.Gazetteer, cfg *config.StandardizerConfig, words []string, state State) Result {
	var hitIDs []int
	var tok tokenize.Token
	skip := 0
	found := false
	for skip = 0; skip <= len(words); skip++ {
		if skip == len(words) {
			break
		}
		tok = tokenize.BuildToken(cfg, words, skip)
		if tok.NameToken == "" {
			continue
		}
		if ids, ok := gz.Word(tok.NameToken); ok && len(ids) > 0 {
			hitIDs = ids
			found = true
			break
		}
	}

	res := Result{NameToken: tok.NameToken, TypeToken: tok.TypeToken, HasType: tok.HasType}

	if !found {
		if hasNonNoiseWord(cfg, words) {
			res.Event = "tokenNotFound"
			res.EventIDs = state.Current
		}
		res.Accepted = state.Current
		res.NoStateChange = true
		return res
	}

	if skip > 0 {
		res.ReinsertWords = dropNoiseAndType(cfg, words[:skip])
	}

	if len(state.Current) == 0 {
		res.Accepted = hitIDs
		res.Found = true
		return applyTypeDisambiguation(gz, cfg, res, hitIDs)
	}

	matching := gazetteer.FilterSubplaces(gz, hitIDs, state.Current)
	if len(matching) == 0 && isSkippable(gz, state.Current) {
		if len(state.Previous) > 0 {
			retry := gazetteer.FilterSubplaces(gz, hitIDs, state.Previous)
			if len(retry) > 0 {
				res.Accepted = retry
				res.Found = true
				res.Event = "skippingParentLevel"
				res.EventIDs = retry
				return applyTypeDisambiguation(gz, cfg, res, retry)
			}
		}
		if !isSkippable(gz, hitIDs) {
			res.Accepted = hitIDs
			res.Found = true
			res.Event = "skippingParentLevel"
			res.EventIDs = hitIDs
			return applyTypeDisambiguation(gz, cfg, res, hitIDs)
		}
	}

	if len(matching) == 0 {
		if hasNonNoiseWord(cfg, words) {
			res.Event = "tokenNotFound"
			res.EventIDs = state.Current
		}
		res.Accepted = state.Current
		res.IgnoreTypeToken = true
		res.NoStateChange = true
		return res
	}

	res.Accepted = matching
	res.Found = true
	return applyTypeDisambiguation(gz, cfg, res, matching)
}

func applyTypeDisambiguation(gz gazetteer.Gazetteer, cfg *config.StandardizerConfig, res Result, accepted []int) Result {
	if len(accepted) <= 1 || !res.HasType || res.IgnoreTypeToken {
		res.Accepted = accepted
		return res
	}
	normalizer := tokenize.NewDefaultNormalizer(false)
	matching := filterTypes(gz, normalizer, res.TypeToken, accepted)
	if len(matching) == 0 {
		res.Event = "typeNotFound"
		res.EventIDs = accepted
		res.Accepted = accepted
		return res
	}
	res.Accepted = matching
	return res
}

// filterTypes keeps a place if its normalized primary name contains
// typeToken as a substring, or one of its normalized types does.
func filterTypes(gz gazetteer.Gazetteer, normalizer *tokenize.DefaultNormalizer, typeToken string, ids []int) []int {
	result := make([]int, 0, len(ids))
	for _, id := range ids {
		p, ok := gz.Place(id)
		if !ok {
			continue
		}
		if strings.Contains(normalizer.Normalize(p.Name), typeToken) {
			result = append(result, id)
			continue
		}
		matchedType := false
		for _, t := range p.Types {
			if strings.Contains(normalizer.Normalize(t), typeToken) {
				matchedType = true
				break
			}
		}
		if matchedType {
			result = append(result, id)
		}
	}
	return result
}

// isSkippable reports whether no place in ids is a country (level 1) or a
// US state (level 2, country USA) -- once one of those is locked in, a
// finer level's miss may not skip over it.
func isSkippable(gz gazetteer.Gazetteer, ids []int) bool {
	for _, id := range ids {
		p, ok := gz.Place(id)
		if !ok {
			continue
		}
		if p.Level == 1 || (p.Level == 2 && p.CountryID == gazetteer.USAID) {
			return false
		}
	}
	return true
}

func hasNonNoiseWord(cfg *config.StandardizerConfig, words []string) bool {
	for _, w := range words {
		if w != "" && !cfg.NoiseWords[w] {
			return true
		}
	}
	return false
}

func dropNoiseAndType(cfg *config.StandardizerConfig, words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" || cfg.NoiseWords[w] || tokenize.IsTypeWord(cfg, w) {
			continue
		}
		result = append(result, w)
	}
	return result
}
