package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-admin/services"
)

type MatchHandler struct {
	matchService  services.MatchService
	filterService *services.FilterService
}

func NewMatchHandler(ms services.MatchService, fs *services.FilterService) *MatchHandler {
	return &MatchHandler{matchService: ms, filterService: fs}
}

// ListMatches godoc
// @Summary Список матчей с фильтрами турнир → категория → команда
// @Tags matches
// @Produce json
// @Param tournament_id query int false "Tournament ID"
// @Param category_id query int false "Category ID"
// @Param registration_id query int false "Team registration ID"
// @Success 200 {object} map[string]interface{} "matches + filters"
// @Failure 400 {object} map[string]string "Неверный параметр"
// @Failure 503 {object} map[string]string "API недоступен"
// @Security BearerAuth
// @Router /matches [get]
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := optionalQueryID(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	categoryID, err := optionalQueryID(r, "category_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	registrationID, err := optionalQueryID(r, "registration_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Stale selections (a category outside the chosen tournament, ...) are dropped here.
	levels, filter, err := h.filterService.Resolve(r.Context(), tournamentID, categoryID, registrationID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	matches, err := h.matchService.ListMatches(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches, "filters": levels}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
