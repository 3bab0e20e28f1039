package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-admin/services"
)

// FilterHandler serves the options of each level of the match list filters.
type FilterHandler struct {
	filterService *services.FilterService
}

func NewFilterHandler(fs *services.FilterService) *FilterHandler {
	return &FilterHandler{filterService: fs}
}

func (h *FilterHandler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	options, err := h.filterService.Tournaments(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": options}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FilterHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	options, err := h.filterService.Categories(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"categories": options}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FilterHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	categoryID, err := getIDFromURL(r, "categoryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	options, err := h.filterService.Teams(r.Context(), categoryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": options}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
