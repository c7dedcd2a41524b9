package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/folgplaces/standardizer/internal/engine"
	"github.com/folgplaces/standardizer/internal/gazetteer"
)

// StandardizeHandler serves GET /standardize/{text}.
type StandardizeHandler struct {
	Engine *engine.Engine
}

type placeScoreResponse struct {
	Place gazetteer.Place `json:"place"`
	Score float64         `json:"score"`
}

// Standardize resolves the {text} path segment and returns ranked matches.
// Query params: mode=best|required|new (default best), num_results (default
// 10), default_country (optional).
func (h *StandardizeHandler) Standardize(w http.ResponseWriter, r *http.Request) {
	text := mux.Vars(r)["text"]
	if text == "" {
		http.Error(w, "missing text", http.StatusBadRequest)
		return
	}

	mode := engine.BEST
	switch r.URL.Query().Get("mode") {
	case "required":
		mode = engine.REQUIRED
	case "new":
		mode = engine.NEW
	}

	numResults := 10
	if v := r.URL.Query().Get("num_results"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			numResults = n
		}
	}

	defaultCountry := r.URL.Query().Get("default_country")

	results := h.Engine.Standardize(text, defaultCountry, mode, numResults)
	response := make([]placeScoreResponse, 0, len(results))
	for _, r := range results {
		response = append(response, placeScoreResponse{Place: r.Place, Score: r.Score})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
