package repositories

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Dosada05/tournament-admin/apiclient"
	"github.com/Dosada05/tournament-admin/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, filter models.MatchFilter) ([]models.Match, error)
	UpdateResult(ctx context.Context, id int, result models.MatchResult) error
}

type httpMatchRepository struct {
	api *apiclient.Client
}

func NewHTTPMatchRepository(api *apiclient.Client) MatchRepository {
	return &httpMatchRepository{api: api}
}

func (r *httpMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := apiclient.FetchItem[models.Match](ctx, r.api, apiclient.RequestArgs{
		Endpoint:   "partidos/%v",
		PathParams: []any{id},
	})
	if err != nil {
		return nil, mapAPIError(err, ErrMatchNotFound, nil)
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	return match, nil
}

func (r *httpMatchRepository) List(ctx context.Context, filter models.MatchFilter) ([]models.Match, error) {
	query := url.Values{}
	if filter.TournamentID != nil {
		query.Set("torneo_id", strconv.Itoa(*filter.TournamentID))
	}
	if filter.CategoryID != nil {
		query.Set("categoria_id", strconv.Itoa(*filter.CategoryID))
	}
	if filter.RegistrationID != nil {
		query.Set("inscripcion_id", strconv.Itoa(*filter.RegistrationID))
	}
	return apiclient.FetchList[models.Match](ctx, r.api, apiclient.RequestArgs{
		Endpoint:    "partidos",
		QueryParams: query,
	})
}

func (r *httpMatchRepository) UpdateResult(ctx context.Context, id int, result models.MatchResult) error {
	_, err := r.api.Do(ctx, apiclient.RequestArgs{
		Endpoint:   "partidos/%v/resultado",
		Method:     http.MethodPut,
		PathParams: []any{id},
		Body:       map[string]models.MatchResult{"resultado": result},
	})
	return mapAPIError(err, ErrMatchNotFound, nil)
}
