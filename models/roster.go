// File: models/roster.go
package models

// RosterPlayer: игрок из состава (roster) домашней команды.
type RosterPlayer struct {
	ID             int    `json:"id"`
	Name           string `json:"nombre"`
	RegistrationID int    `json:"inscripcion_id"`
	Number         int    `json:"numero,omitempty"`
}
