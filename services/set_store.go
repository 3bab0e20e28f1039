package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/repositories"
)

// SetStore is the single source of truth for "does set N exist and what are its points".
type SetStore struct {
	repo repositories.SetRepository
}

func NewSetStore(repo repositories.SetRepository) *SetStore {
	return &SetStore{repo: repo}
}

// ListByMatch returns the sets of a match ordered by set number. No sets is not an error.
func (s *SetStore) ListByMatch(ctx context.Context, matchID int) ([]models.Set, error) {
	sets, err := s.repo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sets for match %d: %w", matchID, mapRepositoryError(err))
	}
	if sets == nil {
		return []models.Set{}, nil
	}
	sort.SliceStable(sets, func(i, j int) bool { return sets[i].Number < sets[j].Number })
	return sets, nil
}

func (s *SetStore) Create(ctx context.Context, matchID, number, homePoints, awayPoints int) (*models.Set, error) {
	if err := validateSetInput(number, homePoints, awayPoints); err != nil {
		return nil, err
	}

	set := &models.Set{
		MatchID:    matchID,
		Number:     number,
		HomePoints: homePoints,
		AwayPoints: awayPoints,
	}
	if err := s.repo.Create(ctx, set); err != nil {
		return nil, fmt.Errorf("failed to create set %d for match %d: %w", number, matchID, mapRepositoryError(err))
	}
	return set, nil
}

func (s *SetStore) Update(ctx context.Context, setID, homePoints, awayPoints int) (*models.Set, error) {
	if homePoints < 0 || awayPoints < 0 {
		return nil, newValidationError("points", "points cannot be negative")
	}

	set := &models.Set{ID: setID, HomePoints: homePoints, AwayPoints: awayPoints}
	if err := s.repo.Update(ctx, set); err != nil {
		return nil, fmt.Errorf("failed to update set %d: %w", setID, mapRepositoryError(err))
	}
	return set, nil
}

func (s *SetStore) Delete(ctx context.Context, setID int) error {
	if err := s.repo.Delete(ctx, setID); err != nil {
		return fmt.Errorf("failed to delete set %d: %w", setID, mapRepositoryError(err))
	}
	return nil
}

func validateSetInput(number, homePoints, awayPoints int) error {
	verr := &ValidationError{}
	if !models.ValidSetNumber(number) {
		verr.add("set_number", fmt.Sprintf("set number must be between %d and %d", models.MinSetNumber, models.MaxSetNumber))
	}
	if homePoints < 0 || awayPoints < 0 {
		verr.add("points", "points cannot be negative")
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func findSet(sets []models.Set, number int) (models.Set, bool) {
	for _, set := range sets {
		if set.Number == number {
			return set, true
		}
	}
	return models.Set{}, false
}
