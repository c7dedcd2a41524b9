package engine

import (
	"reflect"
	"testing"

	"github.com/folgplaces/standardizer/internal/config"
	"github.com/folgplaces/standardizer/internal/gazetteer"
	"github.com/folgplaces/standardizer/internal/matcher"
)

// buildEngineFixture wires USA > Missouri > {Jackson County, Jackson
// Township} > Springfield into an in-memory gazetteer and a small config,
// enough to exercise a full resolve + score pass without touching a
// database.
func buildEngineFixture(t *testing.T) *Engine {
	t.Helper()
	gz := gazetteer.NewMemoryGazetteer()
	places := []gazetteer.Place{
		{ID: 1, Name: "United States", Level: 1, CountryID: 1500},
		{ID: 2, Name: "Missouri", Level: 2, LocatedInID: 1, CountryID: 1500},
		{ID: 3, Name: "Jackson", Level: 3, LocatedInID: 2, CountryID: 1500, Types: []string{"county"}},
		{ID: 6, Name: "Jackson", Level: 3, LocatedInID: 2, CountryID: 1500, Types: []string{"township"}},
		{ID: 4, Name: "Springfield", Level: 4, LocatedInID: 3, CountryID: 1500},
	}
	for _, p := range places {
		if err := gz.PutPlace(p); err != nil {
			t.Fatalf("PutPlace(%d): %v", p.ID, err)
		}
	}
	words := map[string][]int{
		"usa":         {1},
		"missouri":    {2},
		"jackson":     {3, 6},
		"springfield": {4},
	}
	for word, ids := range words {
		if err := gz.PutWord(word, ids); err != nil {
			t.Fatalf("PutWord(%q): %v", word, err)
		}
	}

	cfg := &config.StandardizerConfig{
		TypeWords:                map[string]bool{"county": true, "township": true},
		LargeCountries:            map[int]bool{1500: true},
		LargeCountryLevelWeights:  []float64{1, 2, 3, 4},
		MediumCountryLevelWeights: []float64{1, 2.5, 4, 5.5},
		SmallCountryLevelWeights:  []float64{1, 3, 5, 7},
		PrimaryMatchWeight:        0.5,
	}
	return New(gz, cfg, nil)
}

func TestEngine_StandardizeFullyResolvedChain(t *testing.T) {
	eng := buildEngineFixture(t)

	results := eng.Standardize("Springfield, Jackson County, Missouri, USA", "", BEST, 10)

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1: %+v", len(results), results)
	}
	if results[0].Place.ID != 4 {
		t.Errorf("Place.ID = %d, want 4 (Springfield)", results[0].Place.ID)
	}
	if results[0].Score != 4.5 {
		t.Errorf("Score = %v, want 4.5", results[0].Score)
	}
}

func TestEngine_NumResultsZeroReturnsNoResults(t *testing.T) {
	eng := buildEngineFixture(t)

	// a single-candidate resolution (Jackson County qualified by type)...
	results := eng.Standardize("Springfield, Jackson County, Missouri, USA", "", BEST, 0)
	if len(results) != 0 {
		t.Errorf("single-match case: got %d results, want 0: %+v", len(results), results)
	}

	// ...and an ambiguous multi-candidate resolution (bare "Jackson", no
	// type word to disambiguate the county from the township) must both
	// respect |results| <= num_results for num_results == 0. The ambiguity
	// itself -- a real multi-candidate resolution -- still must be reported
	// against the pre-trim candidate set, even though trimming to 0 empties
	// the returned results.
	handler := &captureHandler{}
	eng.SetErrorHandler(handler)
	results = eng.Standardize("Jackson, Missouri, USA", "", BEST, 0)
	if len(results) != 0 {
		t.Errorf("ambiguous case: got %d results, want 0: %+v", len(results), results)
	}
	if handler.ambiguous != 1 {
		t.Errorf("Ambiguous fired %d times, want 1", handler.ambiguous)
	}
	wantIDs := []int{3, 6}
	if !reflect.DeepEqual(handler.ambiguousIDs, wantIDs) {
		t.Errorf("Ambiguous candidate IDs = %v, want %v", handler.ambiguousIDs, wantIDs)
	}
}

func TestEngine_RequiredModeRejectsAnUnresolvedFinestLevel(t *testing.T) {
	eng := buildEngineFixture(t)

	results := eng.Standardize("Nonexistentville, Jackson County, Missouri, USA", "", REQUIRED, 10)

	if results != nil {
		t.Errorf("REQUIRED mode should reject an unresolved finest level, got %+v", results)
	}

	// BEST mode falls back to the best-effort ancestor match.
	results = eng.Standardize("Nonexistentville, Jackson County, Missouri, USA", "", BEST, 10)
	if len(results) != 1 || results[0].Place.ID != 3 {
		t.Errorf("BEST mode = %+v, want a single result for Jackson County (id 3)", results)
	}
}

func TestEngine_NewModeSynthesizesAPlaceholder(t *testing.T) {
	eng := buildEngineFixture(t)

	results := eng.Standardize("Ozarkville, Jackson County, Missouri, USA", "", NEW, 10)

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1: %+v", len(results), results)
	}
	got := results[0].Place
	if got.Name != "Ozarkville" {
		t.Errorf("Name = %q, want %q", got.Name, "Ozarkville")
	}
	if got.LocatedInID != 3 {
		t.Errorf("LocatedInID = %d, want 3 (Jackson County)", got.LocatedInID)
	}
	if got.CountryID != 1500 {
		t.Errorf("CountryID = %d, want 1500", got.CountryID)
	}
}

// captureHandler records every callback it receives, for asserting which
// anomaly (if any) a resolve call reported.
type captureHandler struct {
	tokenNotFound []string
	placeNotFound int
	ambiguous     int
	ambiguousIDs  []int
}

func (c *captureHandler) TokenNotFound(text string, levelWords []string, levelIndex int, currentIDs []int) {
	c.tokenNotFound = append(c.tokenNotFound, text)
}
func (c *captureHandler) SkippingParentLevel(string, []string, int, []int) {}
func (c *captureHandler) TypeNotFound(string, []string, int, []int)        {}
func (c *captureHandler) Ambiguous(text string, levelWords []string, candidateIDs []int, chosenID int) {
	c.ambiguous++
	c.ambiguousIDs = candidateIDs
}
func (c *captureHandler) PlaceNotFound(text string, levelWords [][]string) { c.placeNotFound++ }

var _ matcher.ErrorHandler = (*captureHandler)(nil)

func TestEngine_ReportsTokenNotFoundThroughTheHandler(t *testing.T) {
	eng := buildEngineFixture(t)
	handler := &captureHandler{}
	eng.SetErrorHandler(handler)

	eng.Standardize("Nonexistentville, Jackson County, Missouri, USA", "", BEST, 10)

	if len(handler.tokenNotFound) != 1 {
		t.Errorf("TokenNotFound fired %d times, want 1", len(handler.tokenNotFound))
	}
	if handler.placeNotFound != 0 {
		t.Errorf("PlaceNotFound fired %d times, want 0", handler.placeNotFound)
	}
}
