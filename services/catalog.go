package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/repositories"
	"golang.org/x/sync/errgroup"
)

// Catalog holds the action types and results of a scoring session. It is not modified after loading.
type Catalog struct {
	ActionTypes   []models.ActionType   `json:"action_types"`
	ActionResults []models.ActionResult `json:"action_results"`
}

func (c Catalog) ActionType(id int) (models.ActionType, bool) {
	for _, t := range c.ActionTypes {
		if t.ID == id {
			return t, true
		}
	}
	return models.ActionType{}, false
}

func (c Catalog) ActionResult(id int) (models.ActionResult, bool) {
	for _, r := range c.ActionResults {
		if r.ID == id {
			return r, true
		}
	}
	return models.ActionResult{}, false
}

type CatalogProvider struct {
	repo   repositories.CatalogRepository
	logger *slog.Logger
}

func NewCatalogProvider(repo repositories.CatalogRepository, logger *slog.Logger) *CatalogProvider {
	return &CatalogProvider{repo: repo, logger: logger}
}

// Load fetches both catalogs concurrently. A failed catalog is left empty and reported in
// the returned error; the Catalog is usable either way.
func (p *CatalogProvider) Load(ctx context.Context) (Catalog, error) {
	var (
		catalog             Catalog
		typesErr, resultErr error
		g                   errgroup.Group
	)

	g.Go(func() error {
		types, err := p.repo.ListActionTypes(ctx)
		if err != nil {
			typesErr = fmt.Errorf("failed to load action types: %w", err)
			return nil
		}
		catalog.ActionTypes = types
		return nil
	})
	g.Go(func() error {
		results, err := p.repo.ListActionResults(ctx)
		if err != nil {
			resultErr = fmt.Errorf("failed to load action results: %w", err)
			return nil
		}
		catalog.ActionResults = results
		return nil
	})
	_ = g.Wait()

	if catalog.ActionTypes == nil {
		catalog.ActionTypes = []models.ActionType{}
	}
	if catalog.ActionResults == nil {
		catalog.ActionResults = []models.ActionResult{}
	}

	err := errors.Join(typesErr, resultErr)
	if err != nil {
		p.logger.Warn("action catalog partially unavailable", slog.Any("error", err))
	}
	return catalog, err
}
