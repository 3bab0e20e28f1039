package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/repositories"
)

// ChildLoader returns the options of a level given the selection of its parent.
// The root level is loaded with parentID 0.
type ChildLoader func(ctx context.Context, parentID int) ([]models.FilterOption, error)

type FilterLevel struct {
	Name     string                `json:"name"`
	Options  []models.FilterOption `json:"options"`
	Selected *int                  `json:"selected,omitempty"`
}

// FilterCascade is a chain of dependent dropdowns. Every change of a selection
// reloads the next level and clears all levels below it.
type FilterCascade struct {
	loaders []ChildLoader
	levels  []FilterLevel
}

func NewFilterCascade(names []string, loaders []ChildLoader) *FilterCascade {
	levels := make([]FilterLevel, len(names))
	for i, name := range names {
		levels[i] = FilterLevel{Name: name, Options: []models.FilterOption{}}
	}
	return &FilterCascade{loaders: loaders, levels: levels}
}

// Load resets the cascade and loads the root options.
func (c *FilterCascade) Load(ctx context.Context) error {
	c.invalidateFrom(0)
	return c.loadLevel(ctx, 0, 0)
}

// Select chooses id at level. id must be one of the level's current options.
func (c *FilterCascade) Select(ctx context.Context, level, id int) error {
	if level < 0 || level >= len(c.levels) {
		return newValidationError("level", fmt.Sprintf("unknown filter level %d", level))
	}
	if !slices.ContainsFunc(c.levels[level].Options, func(o models.FilterOption) bool { return o.ID == id }) {
		return newValidationError(c.levels[level].Name, fmt.Sprintf("%d is not a valid %s", id, c.levels[level].Name))
	}

	c.invalidateFrom(level + 1)
	c.levels[level].Selected = &id
	if level+1 < len(c.levels) {
		return c.loadLevel(ctx, level+1, id)
	}
	return nil
}

// Clear drops the selection at level and everything below it.
func (c *FilterCascade) Clear(level int) {
	if level < 0 || level >= len(c.levels) {
		return
	}
	c.levels[level].Selected = nil
	c.invalidateFrom(level + 1)
}

func (c *FilterCascade) Selected(level int) *int {
	if level < 0 || level >= len(c.levels) {
		return nil
	}
	return c.levels[level].Selected
}

func (c *FilterCascade) Levels() []FilterLevel {
	out := make([]FilterLevel, len(c.levels))
	for i, l := range c.levels {
		out[i] = FilterLevel{Name: l.Name, Options: slices.Clone(l.Options), Selected: l.Selected}
	}
	return out
}

func (c *FilterCascade) invalidateFrom(level int) {
	for i := level; i < len(c.levels); i++ {
		c.levels[i].Options = []models.FilterOption{}
		c.levels[i].Selected = nil
	}
}

func (c *FilterCascade) loadLevel(ctx context.Context, level, parentID int) error {
	options, err := c.loaders[level](ctx, parentID)
	if err != nil {
		return fmt.Errorf("failed to load %s options: %w", c.levels[level].Name, err)
	}
	if options == nil {
		options = []models.FilterOption{}
	}
	c.levels[level].Options = options
	return nil
}

const (
	FilterLevelTournament = iota
	FilterLevelCategory
	FilterLevelTeam
)

// FilterService builds the tournament → category → team cascade of the match list.
type FilterService struct {
	repo   repositories.TournamentRepository
	logger *slog.Logger
}

func NewFilterService(repo repositories.TournamentRepository, logger *slog.Logger) *FilterService {
	return &FilterService{repo: repo, logger: logger}
}

func (s *FilterService) NewCascade() *FilterCascade {
	return NewFilterCascade(
		[]string{"tournament", "category", "team"},
		[]ChildLoader{s.loadTournaments, s.loadCategories, s.loadTeams},
	)
}

// Resolve applies the requested selections top-down. A selection that does not belong to
// its parent is dropped together with everything below it.
func (s *FilterService) Resolve(ctx context.Context, tournamentID, categoryID, registrationID *int) ([]FilterLevel, models.MatchFilter, error) {
	cascade := s.NewCascade()
	if err := cascade.Load(ctx); err != nil {
		return cascade.Levels(), models.MatchFilter{}, err
	}

	for level, requested := range []*int{tournamentID, categoryID, registrationID} {
		if requested == nil {
			break
		}
		if err := cascade.Select(ctx, level, *requested); err != nil {
			if errors.Is(err, ErrValidationFailed) {
				s.logger.Debug("dropping stale filter selection", slog.Int("level", level), slog.Int("id", *requested))
				break
			}
			return cascade.Levels(), selectionFilter(cascade), err
		}
	}
	return cascade.Levels(), selectionFilter(cascade), nil
}

func selectionFilter(c *FilterCascade) models.MatchFilter {
	return models.MatchFilter{
		TournamentID:   c.Selected(FilterLevelTournament),
		CategoryID:     c.Selected(FilterLevelCategory),
		RegistrationID: c.Selected(FilterLevelTeam),
	}
}

func (s *FilterService) loadTournaments(ctx context.Context, _ int) ([]models.FilterOption, error) {
	tournaments, err := s.repo.ListTournaments(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]models.FilterOption, 0, len(tournaments))
	for _, t := range tournaments {
		options = append(options, models.FilterOption{ID: t.ID, Name: t.Name})
	}
	return options, nil
}

func (s *FilterService) loadCategories(ctx context.Context, tournamentID int) ([]models.FilterOption, error) {
	categories, err := s.repo.ListCategories(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	options := make([]models.FilterOption, 0, len(categories))
	for _, c := range categories {
		options = append(options, models.FilterOption{ID: c.ID, Name: c.Name})
	}
	return options, nil
}

func (s *FilterService) loadTeams(ctx context.Context, categoryID int) ([]models.FilterOption, error) {
	registrations, err := s.repo.ListRegistrations(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	options := make([]models.FilterOption, 0, len(registrations))
	for _, r := range registrations {
		options = append(options, models.FilterOption{ID: r.ID, Name: r.TeamName})
	}
	return options, nil
}

func (s *FilterService) Tournaments(ctx context.Context) ([]models.FilterOption, error) {
	options, err := s.loadTournaments(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", mapRepositoryError(err))
	}
	return options, nil
}

func (s *FilterService) Categories(ctx context.Context, tournamentID int) ([]models.FilterOption, error) {
	options, err := s.loadCategories(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories of tournament %d: %w", tournamentID, mapRepositoryError(err))
	}
	return options, nil
}

func (s *FilterService) Teams(ctx context.Context, categoryID int) ([]models.FilterOption, error) {
	options, err := s.loadTeams(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams of category %d: %w", categoryID, mapRepositoryError(err))
	}
	return options, nil
}
