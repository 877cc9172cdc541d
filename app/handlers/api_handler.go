package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"github.com/vportale/marketplace/app/repositories"
)

type APIHandler struct {
	render       *render.Render
	locationRepo repositories.LocationRepositoryImpl
}

func NewAPIHandler(r *render.Render, locationRepo repositories.LocationRepositoryImpl) *APIHandler {
	return &APIHandler{
		render:       r,
		locationRepo: locationRepo,
	}
}

// Locations is the autocomplete endpoint: matches cities and regions by name.
func (h *APIHandler) Locations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		_ = h.render.JSON(w, http.StatusOK, []repositories.LocationSuggestion{})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	suggestions, err := h.locationRepo.Search(r.Context(), query, limit)
	if err != nil {
		log.Printf("Locations: Search failed for %q: %v", query, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, suggestions)
}

func (h *APIHandler) Regions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.locationRepo.GetAllRegions(r.Context())
	if err != nil {
		log.Printf("Regions: Failed to load regions: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load regions"})
		return
	}

	type regionJSON struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	payload := make([]regionJSON, 0, len(regions))
	for _, region := range regions {
		payload = append(payload, regionJSON{ID: region.ID, Name: region.Name})
	}

	_ = h.render.JSON(w, http.StatusOK, payload)
}

func (h *APIHandler) CitiesByRegion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	cities, err := h.locationRepo.GetCitiesByRegion(r.Context(), vars["id"])
	if err != nil {
		log.Printf("CitiesByRegion: Failed to load cities for region %s: %v", vars["id"], err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load cities"})
		return
	}

	type cityJSON struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	payload := make([]cityJSON, 0, len(cities))
	for _, city := range cities {
		payload = append(payload, cityJSON{ID: city.ID, Name: city.Name})
	}

	_ = h.render.JSON(w, http.StatusOK, payload)
}
