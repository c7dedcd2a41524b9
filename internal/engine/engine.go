// Package engine ties the gazetteer, tokenizer, and level matcher together
// behind the public standardize API.
package engine

import (
	"sync"

	"github.com/folgplaces/standardizer/internal/config"
	"github.com/folgplaces/standardizer/internal/gazetteer"
	"github.com/folgplaces/standardizer/internal/matcher"
	"github.com/folgplaces/standardizer/internal/tokenize"
)

// Engine is the process-wide, read-mostly standardizer handle: construct
// once from an initialized gazetteer and config, then call Standardize from
// as many goroutines as needed -- a single resolve is synchronous and owns
// its working lists exclusively on the stack (no shared mutable state other
// than the gazetteer's own caches, which are safe for concurrent use).
type Engine struct {
	gz         gazetteer.Gazetteer
	cfg        *config.StandardizerConfig
	normalizer tokenize.Normalizer

	mu      sync.RWMutex
	handler matcher.ErrorHandler
}

// New constructs an Engine. normalizer may be nil, in which case
// tokenize.NewDefaultNormalizer(false) is used (debug output disabled).
func New(gz gazetteer.Gazetteer, cfg *config.StandardizerConfig, normalizer tokenize.Normalizer) *Engine {
	if normalizer == nil {
		normalizer = tokenize.NewDefaultNormalizer(false)
	}
	return &Engine{
		gz:         gz,
		cfg:        cfg,
		normalizer: normalizer,
		handler:    matcher.NoopHandler{},
	}
}

// SetErrorHandler installs handler for subsequent Standardize calls. Safe
// to call concurrently with Standardize.
func (e *Engine) SetErrorHandler(handler matcher.ErrorHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if handler == nil {
		handler = matcher.NoopHandler{}
	}
	e.handler = handler
}

func (e *Engine) currentHandler() matcher.ErrorHandler {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.handler
}

// Standardize resolves text into a ranked list of place matches.
// defaultCountry is reserved for future scoring weight; it is currently a
// no-op extension point.
func (e *Engine) Standardize(text string, defaultCountry string, mode Mode, numResults int) []PlaceScore {
	handler := e.currentHandler()
	res := resolve(e.gz, e.cfg, e.normalizer, handler, text)

	if len(res.current) == 0 {
		return nil
	}
	if mode == REQUIRED && res.lastFoundLevel != 0 {
		return nil
	}

	return buildResults(e.gz, e.cfg, e.normalizer, handler, res, text, mode, numResults)
}

// StandardizeDefault resolves text with mode=BEST and no default country.
func (e *Engine) StandardizeDefault(text string, numResults int) []PlaceScore {
	return e.Standardize(text, "", BEST, numResults)
}

// StandardizeBest returns the single best match for text, or (Place{}, false)
// when nothing resolved.
func (e *Engine) StandardizeBest(text string, defaultCountry string) (gazetteer.Place, bool) {
	results := e.Standardize(text, defaultCountry, BEST, 1)
	if len(results) == 0 {
		return gazetteer.Place{}, false
	}
	return results[0].Place, true
}

// Place looks up a single place by id.
func (e *Engine) Place(id int) (gazetteer.Place, bool) {
	return e.gz.Place(id)
}

var (
	defaultMu     sync.RWMutex
	defaultEngine *Engine
)

// SetDefault installs the process-wide convenience instance used by
// Default. Callers that embed the engine directly should prefer an
// explicitly constructed *Engine instead; this shim exists only for CLI
// subcommands that have no natural place to thread one through.
func SetDefault(e *Engine) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultEngine = e
}

// Default returns the process-wide instance installed by SetDefault, or nil
// if none has been set.
func Default() *Engine {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultEngine
}
