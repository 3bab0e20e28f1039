package models

const (
	MinSetNumber = 1
	MaxSetNumber = 5
)

// SetWinner is derived by the competition API, never computed here.
type SetWinner string

const (
	WinnerHome SetWinner = "local"
	WinnerAway SetWinner = "visitante"
	WinnerTie  SetWinner = "empate"
)

// Side identifies one of the two point columns of a set.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

func (s Side) IsValid() bool {
	return s == SideHome || s == SideAway
}

type Set struct {
	ID         int       `json:"id"`
	MatchID    int       `json:"partido_id"`
	Number     int       `json:"numero_set"`
	HomePoints int       `json:"puntos_local"`
	AwayPoints int       `json:"puntos_visitante"`
	Winner     SetWinner `json:"ganador,omitempty"`
	Finished   bool      `json:"finalizado"`
}

func ValidSetNumber(n int) bool {
	return n >= MinSetNumber && n <= MaxSetNumber
}

// MaxPointsDelta bounds a single adjustment of the working totals.
const MaxPointsDelta = 10

// Points holds the working (unsaved) totals of an open set.
type Points struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Adjust applies delta to one side, never going below zero.
func (p Points) Adjust(side Side, delta int) Points {
	switch side {
	case SideHome:
		p.Home = max(p.Home+delta, 0)
	case SideAway:
		p.Away = max(p.Away+delta, 0)
	}
	return p
}
