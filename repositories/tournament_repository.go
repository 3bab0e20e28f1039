package repositories

import (
	"context"

	"github.com/Dosada05/tournament-admin/apiclient"
	"github.com/Dosada05/tournament-admin/models"
)

// TournamentRepository reads the tournament → category → registration hierarchy used by filters.
type TournamentRepository interface {
	ListTournaments(ctx context.Context) ([]models.Tournament, error)
	ListCategories(ctx context.Context, tournamentID int) ([]models.Category, error)
	ListRegistrations(ctx context.Context, categoryID int) ([]models.Registration, error)
}

type httpTournamentRepository struct {
	api *apiclient.Client
}

func NewHTTPTournamentRepository(api *apiclient.Client) TournamentRepository {
	return &httpTournamentRepository{api: api}
}

func (r *httpTournamentRepository) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	return apiclient.FetchList[models.Tournament](ctx, r.api, apiclient.RequestArgs{Endpoint: "torneos"})
}

func (r *httpTournamentRepository) ListCategories(ctx context.Context, tournamentID int) ([]models.Category, error) {
	return apiclient.FetchList[models.Category](ctx, r.api, apiclient.RequestArgs{
		Endpoint:   "categorias/torneo/%v",
		PathParams: []any{tournamentID},
	})
}

func (r *httpTournamentRepository) ListRegistrations(ctx context.Context, categoryID int) ([]models.Registration, error) {
	return apiclient.FetchList[models.Registration](ctx, r.api, apiclient.RequestArgs{
		Endpoint:   "inscripciones/categoria/%v",
		PathParams: []any{categoryID},
	})
}
