package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/folgplaces/standardizer/internal/engine"
)

// PlacesHandler serves GET /places/{id}.
type PlacesHandler struct {
	Engine *engine.Engine
}

func (h *PlacesHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	place, ok := h.Engine.Place(id)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(place); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
