package engine

import (
	"github.com/folgplaces/standardizer/internal/config"
	"github.com/folgplaces/standardizer/internal/gazetteer"
	"github.com/folgplaces/standardizer/internal/matcher"
	"github.com/folgplaces/standardizer/internal/tokenize"
)

// resolution is the outcome of walking every input level right-to-left: the
// narrowed candidate set, the name_token of the finest level that produced a
// non-empty one, whether or not it matched (the scorer needs it), and whether
// the finest level ever matched.
type resolution struct {
	levels         [][]string
	current        []int
	previous       []int
	lastFoundLevel int // -1 if no level ever matched; 0 means the finest did
	lastNameToken  string
}

// resolve walks levels right-to-left (highest index, the coarsest textual
// chunk, first; index 0, the finest, last), narrowing the candidate set via
// matcher.MatchLevel and re-inserting the words a word-skip lookup passed
// over as a new level as it goes.
func resolve(gz gazetteer.Gazetteer, cfg *config.StandardizerConfig, normalizer tokenize.Normalizer, handler matcher.ErrorHandler, text string) resolution {
	levels := normalizer.Tokenize(text)

	var state matcher.State
	state.LastFoundLevel = -1
	errorLogged := false
	nameToken := ""

	i := len(levels) - 1
	for i >= 0 {
		words := levels[i]
		if len(words) == 0 {
			i--
			continue
		}

		res := matcher.MatchLevel(gz, cfg, words, state)
		if res.NameToken != "" {
			nameToken = res.NameToken
		}

		if res.Event != "" && !errorLogged {
			fireLevelEvent(gz, handler, text, words, i, res)
			errorLogged = true
		}

		if len(res.ReinsertWords) > 0 {
			next := make([][]string, 0, len(levels)+1)
			next = append(next, levels[:i]...)
			next = append(next, res.ReinsertWords)
			next = append(next, levels[i:]...)
			levels = next
			i++
		}

		if !res.NoStateChange {
			state.Previous = state.Current
			state.Current = res.Accepted
			if res.Found {
				state.LastFoundLevel = i
			}
		}

		i--
	}

	if len(state.Current) == 0 && hasAnyNonNoiseWord(cfg, levels) {
		handler.PlaceNotFound(text, levels)
	}

	return resolution{
		levels:         levels,
		current:        state.Current,
		previous:       state.Previous,
		lastFoundLevel: state.LastFoundLevel,
		lastNameToken:  nameToken,
	}
}

func fireLevelEvent(gz gazetteer.Gazetteer, handler matcher.ErrorHandler, text string, words []string, levelIndex int, res matcher.Result) {
	ids := gazetteer.RemoveChildren(gz, res.EventIDs)
	switch res.Event {
	case "tokenNotFound":
		handler.TokenNotFound(text, words, levelIndex, ids)
	case "skippingParentLevel":
		handler.SkippingParentLevel(text, words, levelIndex, ids)
	case "typeNotFound":
		handler.TypeNotFound(text, words, levelIndex, ids)
	}
}

func hasAnyNonNoiseWord(cfg *config.StandardizerConfig, levels [][]string) bool {
	for _, words := range levels {
		for _, w := range words {
			if w != "" && !cfg.NoiseWords[w] {
				return true
			}
		}
	}
	return false
}
