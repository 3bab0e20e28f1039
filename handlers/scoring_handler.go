package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Dosada05/tournament-admin/middleware"
	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/services"
	"github.com/Dosada05/tournament-admin/storage"
)

// ScoringHandler exposes the operator's scoring session of a match.
type ScoringHandler struct {
	sessions     *services.SessionManager
	matchService services.MatchService
	scoresheets  *services.ScoresheetService
}

func NewScoringHandler(sm *services.SessionManager, ms services.MatchService, ss *services.ScoresheetService) *ScoringHandler {
	return &ScoringHandler{sessions: sm, matchService: ms, scoresheets: ss}
}

type adjustPointsInput struct {
	Side  models.Side `json:"side"`
	Delta int         `json:"delta"`
}

type saveSetInput struct {
	HomePoints *int `json:"home_points"`
	AwayPoints *int `json:"away_points"`
}

type recordActionInput struct {
	Actor          models.ActorSelection `json:"actor"`
	ActionTypeID   int                   `json:"action_type_id"`
	ActionResultID int                   `json:"action_result_id"`
	// UseSelection records the selection stored with PATCH .../selection instead.
	UseSelection bool `json:"use_selection"`
}

type finalizeInput struct {
	Result models.MatchResult `json:"result"`
}

type confirmInput struct {
	Token string `json:"token"`
}

func (h *ScoringHandler) operatorAndMatch(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	operatorID, err := middleware.GetOperatorIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return 0, 0, false
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, 0, false
	}
	return operatorID, matchID, true
}

func (h *ScoringHandler) session(w http.ResponseWriter, r *http.Request) (*services.ScoringSession, bool) {
	operatorID, matchID, ok := h.operatorAndMatch(w, r)
	if !ok {
		return nil, false
	}
	s, err := h.sessions.Get(operatorID, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return nil, false
	}
	return s, true
}

// StartSession godoc
// @Summary Начать подсчёт матча (только для матчей в статусе Pendiente)
// @Tags scoring
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 201 {object} map[string]interface{} "Снимок сессии"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "Матч уже завершён"
// @Security BearerAuth
// @Router /matches/{matchID}/session [post]
func (h *ScoringHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	operatorID, matchID, ok := h.operatorAndMatch(w, r)
	if !ok {
		return
	}

	s, err := h.sessions.Start(r.Context(), operatorID, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"session": s.Snapshot()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScoringHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": s.Snapshot()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EndSession discards unsaved working points.
func (h *ScoringHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	operatorID, matchID, ok := h.operatorAndMatch(w, r)
	if !ok {
		return
	}
	if err := h.sessions.End(operatorID, matchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// OpenSet godoc
// @Summary Открыть сет для подсчёта (создаётся со счётом 0-0, если его нет)
// @Tags scoring
// @Produce json
// @Param matchID path int true "Match ID"
// @Param setNumber path int true "Set number (1-5)"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /matches/{matchID}/session/sets/{setNumber}/open [post]
func (h *ScoringHandler) OpenSet(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	n, err := getIDFromURL(r, "setNumber")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	open, err := s.OpenSet(r.Context(), n)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"open_set": open, "sets": s.Snapshot().Sets}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScoringHandler) AdjustPoints(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var input adjustPointsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	points, err := s.AdjustPoints(input.Side, input.Delta)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"working_points": points}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScoringHandler) SaveSet(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	n, err := getIDFromURL(r, "setNumber")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input saveSetInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.HomePoints == nil || input.AwayPoints == nil {
		failedValidationResponse(w, r, map[string]string{"points": "home_points and away_points are required"})
		return
	}

	set, err := s.SaveSet(r.Context(), n, *input.HomePoints, *input.AwayPoints)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"set": set}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScoringHandler) UpdateSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var input services.Selection
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sel, err := s.SetSelection(input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"selection": sel}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordAction godoc
// @Summary Записать действие в журнал открытого сета
// @Tags scoring
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 201 {object} map[string]interface{} "Действие записано"
// @Success 202 {object} map[string]interface{} "Действие записано, счёт сета не сохранён"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Security BearerAuth
// @Router /matches/{matchID}/session/actions [post]
func (h *ScoringHandler) RecordAction(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var input recordActionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var (
		action *models.ScoringAction
		err    error
	)
	if input.UseSelection {
		action, err = s.RecordSelection(r.Context())
	} else {
		action, err = s.RecordAction(r.Context(), input.Actor, input.ActionTypeID, input.ActionResultID)
	}

	switch {
	case err == nil:
		if err := writeJSON(w, http.StatusCreated, jsonResponse{"action": action}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
	case action != nil && errors.Is(err, services.ErrPointsNotSaved):
		// The action is in the log; the client keeps the working totals and retries with SaveSet.
		if err := writeJSON(w, http.StatusAccepted, jsonResponse{"action": action, "warning": services.UserMessage(err)}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
	default:
		mapServiceErrorToHTTP(w, r, err)
	}
}

func (h *ScoringHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	actions, err := s.ActionsForOpenSet(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"actions": actions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScoringHandler) RequestSetDeletion(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	n, err := getIDFromURL(r, "setNumber")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	c, err := s.RequestSetDeletion(n)
	h.writeConfirmation(w, r, c, err)
}

func (h *ScoringHandler) RequestActionDeletion(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	actionID, err := getIDFromURL(r, "actionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	c, err := s.RequestActionDeletion(r.Context(), actionID)
	h.writeConfirmation(w, r, c, err)
}

func (h *ScoringHandler) RequestFinalization(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var input finalizeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	c, err := s.RequestFinalization(input.Result)
	h.writeConfirmation(w, r, c, err)
}

// Confirm godoc
// @Summary Подтвердить удаление сета/действия или финальный результат
// @Tags scoring
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Токен не найден или уже использован"
// @Failure 410 {object} map[string]string "Токен истёк"
// @Security BearerAuth
// @Router /matches/{matchID}/session/confirm [post]
func (h *ScoringHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var input confirmInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if strings.TrimSpace(input.Token) == "" {
		failedValidationResponse(w, r, map[string]string{"token": "confirmation token is required"})
		return
	}

	c, err := s.Confirm(r.Context(), input.Token)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"confirmed": c, "session": s.Snapshot()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DownloadScoresheet renders the workbook of any match, finished or not.
func (h *ScoringHandler) DownloadScoresheet(w http.ResponseWriter, r *http.Request) {
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
	data, err := h.scoresheets.Render(r.Context(), *match)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	key := services.ScoresheetKey(*match)
	w.Header().Set("Content-Type", storage.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", key[strings.LastIndex(key, "/")+1:]))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *ScoringHandler) writeConfirmation(w http.ResponseWriter, r *http.Request, c services.Confirmation, err error) {
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusAccepted, jsonResponse{"confirmation": c}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
