package models

import "time"

// MatchResult представляет результат матча, как его хранит API соревнований.
type MatchResult string

const (
	ResultPending         MatchResult = "Pendiente"
	ResultWon             MatchResult = "Ganado"
	ResultLost            MatchResult = "Perdido"
	ResultWalkover        MatchResult = "Walkover"
	ResultWalkoverAgainst MatchResult = "Walkover en contra"
)

// FinalResults lists the targets selectable when a match is finalized.
var FinalResults = []MatchResult{ResultWon, ResultLost, ResultWalkover, ResultWalkoverAgainst}

func (r MatchResult) IsValid() bool {
	return r == ResultPending || r.IsTerminal()
}

// IsTerminal reports whether the match has left Pending.
func (r MatchResult) IsTerminal() bool {
	switch r {
	case ResultWon, ResultLost, ResultWalkover, ResultWalkoverAgainst:
		return true
	}
	return false
}

type Match struct {
	ID                 int         `json:"id"`
	HomeRegistrationID int         `json:"inscripcion_local_id"`
	HomeTeamName       string      `json:"equipo_local"`
	AwayTeamID         int         `json:"equipo_visitante_id"`
	AwayTeamName       string      `json:"equipo_visitante"`
	ScheduledAt        time.Time   `json:"fecha_hora"`
	Location           string      `json:"lugar,omitempty"`
	Result             MatchResult `json:"resultado"`
}

// CanStartScoring is the condition the match list uses to show the "start match" control.
func (m Match) CanStartScoring() bool {
	return m.Result == ResultPending
}

// MatchListItem is a match as shown in the admin match list.
type MatchListItem struct {
	Match
	CanScore bool `json:"can_score"`
}

type MatchFilter struct {
	TournamentID   *int
	CategoryID     *int
	RegistrationID *int
}
