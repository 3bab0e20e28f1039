package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/repositories"
)

// ErrMatchesListFailed - общая ошибка для листинга матчей
var ErrMatchesListFailed = errors.New("failed to list matches")

type MatchService interface {
	ListMatches(ctx context.Context, filter models.MatchFilter) ([]models.MatchListItem, error)
	GetMatch(ctx context.Context, id int) (*models.Match, error)
}

type matchService struct {
	matchRepo repositories.MatchRepository
}

func NewMatchService(matchRepo repositories.MatchRepository) MatchService {
	return &matchService{matchRepo: matchRepo}
}

// ListMatches returns matches ordered by schedule; CanScore marks the ones whose
// "start match" control is shown.
func (s *matchService) ListMatches(ctx context.Context, filter models.MatchFilter) ([]models.MatchListItem, error) {
	matches, err := s.matchRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMatchesListFailed, err)
	}

	items := make([]models.MatchListItem, 0, len(matches))
	for _, m := range matches {
		items = append(items, models.MatchListItem{Match: m, CanScore: m.CanStartScoring()})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ScheduledAt.Before(items[j].ScheduledAt)
	})
	return items, nil
}

func (s *matchService) GetMatch(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match by id %d: %w", id, mapRepositoryError(err))
	}
	return match, nil
}
