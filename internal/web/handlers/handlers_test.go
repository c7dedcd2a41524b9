package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/folgplaces/standardizer/internal/config"
	"github.com/folgplaces/standardizer/internal/engine"
	"github.com/folgplaces/standardizer/internal/gazetteer"
)

// buildTestEngine wires a two-place gazetteer (a state and a city under it)
// so the handlers under test have something real to resolve and fetch.
func buildTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	gz := gazetteer.NewMemoryGazetteer()
	places := []gazetteer.Place{
		{ID: 1, Name: "Missouri", Level: 2, CountryID: 1500},
		{ID: 2, Name: "Springfield", Level: 4, LocatedInID: 1, CountryID: 1500},
	}
	for _, p := range places {
		if err := gz.PutPlace(p); err != nil {
			t.Fatalf("PutPlace(%d): %v", p.ID, err)
		}
	}
	if err := gz.PutWord("springfield", []int{2}); err != nil {
		t.Fatalf("PutWord: %v", err)
	}
	if err := gz.PutWord("missouri", []int{1}); err != nil {
		t.Fatalf("PutWord: %v", err)
	}

	cfg := &config.StandardizerConfig{
		LargeCountries:            map[int]bool{1500: true},
		LargeCountryLevelWeights:  []float64{1, 2, 3, 4},
		MediumCountryLevelWeights: []float64{1, 2, 3, 4},
		SmallCountryLevelWeights:  []float64{1, 2, 3, 4},
	}
	return engine.New(gz, cfg, nil)
}

func newTestRouter(eng *engine.Engine) *mux.Router {
	router := mux.NewRouter()
	standardizeHandler := &StandardizeHandler{Engine: eng}
	placesHandler := &PlacesHandler{Engine: eng}
	router.HandleFunc("/standardize/{text}", standardizeHandler.Standardize).Methods("GET")
	router.HandleFunc("/places/{id:[0-9]+}", placesHandler.GetPlace).Methods("GET")
	return router
}

func TestStandardizeHandler_ReturnsRankedMatches(t *testing.T) {
	router := newTestRouter(buildTestEngine(t))

	req := httptest.NewRequest(http.MethodGet, "/standardize/Springfield%2C%20Missouri", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var results []placeScoreResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(results) != 1 || results[0].Place.ID != 2 {
		t.Errorf("results = %+v, want a single match for place id 2", results)
	}
}

func TestStandardizeHandler_BlankTextReturnsNoMatches(t *testing.T) {
	router := newTestRouter(buildTestEngine(t))

	req := httptest.NewRequest(http.MethodGet, "/standardize/%20", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// a lone space normalizes away to nothing usable, so the engine
	// returns no matches -- the handler itself only rejects a literally
	// empty path segment, which mux never routes to this handler.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var results []placeScoreResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v, want none", results)
	}
}

func TestPlacesHandler_GetPlace(t *testing.T) {
	router := newTestRouter(buildTestEngine(t))

	req := httptest.NewRequest(http.MethodGet, "/places/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var place gazetteer.Place
	if err := json.Unmarshal(rec.Body.Bytes(), &place); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if place.Name != "Springfield" {
		t.Errorf("Name = %q, want %q", place.Name, "Springfield")
	}
}

func TestPlacesHandler_UnknownIDIs404(t *testing.T) {
	router := newTestRouter(buildTestEngine(t))

	req := httptest.NewRequest(http.MethodGet, "/places/999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
