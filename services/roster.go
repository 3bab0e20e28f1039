package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/repositories"
)

type RosterProvider struct {
	repo repositories.RosterRepository
}

func NewRosterProvider(repo repositories.RosterRepository) *RosterProvider {
	return &RosterProvider{repo: repo}
}

// ListHomeRoster returns the players registered under registrationID, ordered by shirt number
// (unnumbered players last) and then by name.
func (p *RosterProvider) ListHomeRoster(ctx context.Context, registrationID int) ([]models.RosterPlayer, error) {
	players, err := p.repo.ListByRegistration(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster for registration %d: %w", registrationID, mapRepositoryError(err))
	}

	roster := make([]models.RosterPlayer, 0, len(players))
	for _, player := range players {
		// Some API versions return the whole category roster; keep only this registration.
		if player.RegistrationID != 0 && player.RegistrationID != registrationID {
			continue
		}
		roster = append(roster, player)
	}

	sort.SliceStable(roster, func(i, j int) bool {
		a, b := roster[i], roster[j]
		if a.Number != b.Number {
			if a.Number == 0 || b.Number == 0 {
				return b.Number == 0
			}
			return a.Number < b.Number
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	return roster, nil
}
