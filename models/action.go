package models

import (
	"strings"
	"time"
)

const (
	MinCourtPosition = 1
	MaxCourtPosition = 6
)

// ScoringAction: запись в журнале действий сета («bitácora»).
// Ровно одно из RosterPlayerID/CourtPosition имеет смысл, второе равно 0.
type ScoringAction struct {
	ID             int       `json:"id"`
	SetID          int       `json:"set_id"`
	ActionTypeID   int       `json:"tipo_accion_id"`
	ActionResultID int       `json:"resultado_accion_id"`
	RosterPlayerID int       `json:"roster_id"`
	CourtPosition  int       `json:"posicion_cancha"`
	CreatedAt      time.Time `json:"created_at"`
}

// ActorSelection attributes an action either to a home roster player or to an away court position.
type ActorSelection struct {
	RosterPlayerID int `json:"roster_id,omitempty"`
	CourtPosition  int `json:"posicion_cancha,omitempty"`
}

func (a ActorSelection) IsEmpty() bool {
	return a.RosterPlayerID == 0 && a.CourtPosition == 0
}

// Problem returns a description of what is wrong with the selection, or "" when it is usable.
func (a ActorSelection) Problem() string {
	switch {
	case a.IsEmpty():
		return "select a roster player or a court position"
	case a.RosterPlayerID != 0 && a.CourtPosition != 0:
		return "select either a roster player or a court position, not both"
	case a.RosterPlayerID < 0:
		return "invalid roster player"
	case a.CourtPosition != 0 && (a.CourtPosition < MinCourtPosition || a.CourtPosition > MaxCourtPosition):
		return "court position must be between 1 and 6"
	}
	return ""
}

type ActionType struct {
	ID   int    `json:"id"`
	Name string `json:"nombre"`
}

type ActionResult struct {
	ID   int    `json:"id"`
	Name string `json:"nombre"`
}

func (r ActionResult) IsPoint() bool {
	return strings.EqualFold(strings.TrimSpace(r.Name), "punto")
}

func (r ActionResult) IsError() bool {
	return strings.EqualFold(strings.TrimSpace(r.Name), "error")
}
