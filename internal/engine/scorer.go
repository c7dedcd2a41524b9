package engine

import (
	"sort"
	"strings"

	"github.com/folgplaces/standardizer/internal/config"
	"github.com/folgplaces/standardizer/internal/gazetteer"
	"github.com/folgplaces/standardizer/internal/matcher"
	"github.com/folgplaces/standardizer/internal/tokenize"
)

// PlaceScore pairs a resolved place with the weight the scorer assigned it.
type PlaceScore struct {
	Place gazetteer.Place
	Score float64
}

// Mode selects how standardize resolves a finest level that never matched.
type Mode int

const (
	// BEST returns the best-effort match even if the finest level failed.
	BEST Mode = iota
	// REQUIRED rejects any result unless the finest level itself matched.
	REQUIRED
	// NEW synthesizes a child place under the best match when the finest
	// level's text did not resolve to an existing gazetteer entry.
	NEW
)

// buildResults collapses ancestor/descendant overlap, scores and sorts the
// surviving candidates, reports ambiguity against that pre-trim candidate
// set, trims to numResults, and builds a synthetic place in NEW mode when
// the finest level never resolved.
func buildResults(gz gazetteer.Gazetteer, cfg *config.StandardizerConfig, normalizer tokenize.Normalizer, handler matcher.ErrorHandler, res resolution, text string, mode Mode, numResults int) []PlaceScore {
	current := res.current
	if len(current) == 0 {
		return nil
	}

	if len(current) > 1 {
		current = gazetteer.RemoveChildren(gz, current)
	}

	var results []PlaceScore
	if len(current) > 1 {
		scored := scoreAll(gz, cfg, normalizer, res.lastNameToken, current)
		sort.Slice(scored, func(i, j int) bool {
			if scored[i].Score != scored[j].Score {
				return scored[i].Score > scored[j].Score
			}
			return scored[i].Place.ID < scored[j].Place.ID
		})
		if len(scored) > 0 {
			handler.Ambiguous(text, res.levels[0], current, scored[0].Place.ID)
		}
		for len(scored) > 0 && len(scored) > numResults {
			scored = scored[:len(scored)-1]
		}
		results = scored
	} else if numResults > 0 {
		id := current[0]
		p, ok := gz.Place(id)
		if !ok {
			return nil
		}
		results = []PlaceScore{{Place: p, Score: score(cfg, normalizer, res.lastNameToken, p)}}
	}

	if len(results) > 0 && mode == NEW && res.lastFoundLevel > 0 {
		results = []PlaceScore{synthesize(cfg, res, results[0].Place)}
	}

	return results
}

func scoreAll(gz gazetteer.Gazetteer, cfg *config.StandardizerConfig, normalizer tokenize.Normalizer, nameToken string, ids []int) []PlaceScore {
	scored := make([]PlaceScore, 0, len(ids))
	for _, id := range ids {
		p, ok := gz.Place(id)
		if !ok {
			continue
		}
		scored = append(scored, PlaceScore{Place: p, Score: score(cfg, normalizer, nameToken, p)})
	}
	return scored
}

func score(cfg *config.StandardizerConfig, normalizer tokenize.Normalizer, nameToken string, p gazetteer.Place) float64 {
	weights := cfg.SmallCountryLevelWeights
	if cfg.LargeCountries[p.CountryID] {
		weights = cfg.LargeCountryLevelWeights
	} else if cfg.MediumCountries[p.CountryID] {
		weights = cfg.MediumCountryLevelWeights
	}

	level := p.Level
	if level > gazetteer.MaxLevels {
		level = gazetteer.MaxLevels
	}
	if level < 1 {
		level = 1
	}
	total := weights[level-1]

	if nameToken != "" && strings.Contains(normalizer.Normalize(p.Name), nameToken) {
		total += cfg.PrimaryMatchWeight
	}
	return total
}

// synthesize builds the NEW-mode placeholder place: name derived from the
// finest unmatched level's words, located_in the chosen best match.
func synthesize(cfg *config.StandardizerConfig, res resolution, locatedIn gazetteer.Place) PlaceScore {
	words := []string{}
	if res.lastFoundLevel-1 >= 0 && res.lastFoundLevel-1 < len(res.levels) {
		words = res.levels[res.lastFoundLevel-1]
	}
	p := gazetteer.Place{
		Name:        generatePlaceName(cfg, words),
		LocatedInID: locatedIn.ID,
		CountryID:   locatedIn.CountryID,
	}
	return PlaceScore{Place: p, Score: 0}
}

// generatePlaceName finds the longest prefix of words excluding trailing
// type words ("cemetery" is a retained exception), title-cases each word
// and joins them with single spaces.
func generatePlaceName(cfg *config.StandardizerConfig, words []string) string {
	end := len(words)
	for end > 0 {
		w := words[end-1]
		if w == "cemetery" {
			break
		}
		if !cfg.TypeWords[w] {
			break
		}
		end--
	}
	if end == 0 {
		end = len(words)
	}
	parts := make([]string, 0, end)
	for _, w := range words[:end] {
		if w == "" {
			continue
		}
		parts = append(parts, strings.ToUpper(w[:1])+strings.ToLower(w[1:]))
	}
	return strings.Join(parts, " ")
}
