// Package tokenize builds the word-level inputs the matching engine
// consumes: the Normalizer turns free text into levels of normalized
// words, and the token builder turns one level's words into the
// (name_token, type_token) pair used for word-index lookup.
package tokenize

// Normalizer lowercases, strips punctuation, and splits free text into
// comma-separated levels of word lists. The engine depends only on this
// interface; DefaultNormalizer is a concrete, swappable implementation
// supplied so the engine is runnable without a separate service.
type Normalizer interface {
	// Tokenize splits text into levels (outermost slice, in comma order, so
	// the finest level is first at index 0) each holding that level's
	// normalized words.
	Tokenize(text string) [][]string

	// Normalize applies the same word-level normalization used during
	// tokenization to a single string, e.g. a place's primary name, so it
	// can be compared against a name/type token.
	Normalize(text string) string
}
