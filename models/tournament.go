package models

// Tournament: турнир в том виде, в котором он нужен фильтрам панели.
type Tournament struct {
	ID     int    `json:"id"`
	Name   string `json:"nombre"`
	Status string `json:"estado,omitempty"`
}

// Category belongs to a tournament (e.g. "Juvenil Femenino").
type Category struct {
	ID           int    `json:"id"`
	Name         string `json:"nombre"`
	TournamentID int    `json:"torneo_id"`
}

// Registration is a team enrolled in a tournament category.
type Registration struct {
	ID         int    `json:"id"`
	TeamID     int    `json:"equipo_id"`
	TeamName   string `json:"equipo"`
	CategoryID int    `json:"categoria_id"`
}

// FilterOption is one entry of a cascading dropdown.
type FilterOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
