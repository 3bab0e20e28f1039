package repositories

import (
	"context"
	"errors"
	"net/http"

	"github.com/Dosada05/tournament-admin/apiclient"
	"github.com/Dosada05/tournament-admin/models"
)

var (
	ErrSetNotFound = errors.New("set not found")
	ErrSetConflict = errors.New("set number already exists for this match")
)

type SetRepository interface {
	ListByMatch(ctx context.Context, matchID int) ([]models.Set, error)
	Create(ctx context.Context, set *models.Set) error
	Update(ctx context.Context, set *models.Set) error
	Delete(ctx context.Context, id int) error
}

type httpSetRepository struct {
	api *apiclient.Client
}

func NewHTTPSetRepository(api *apiclient.Client) SetRepository {
	return &httpSetRepository{api: api}
}

type setPayload struct {
	MatchID    int `json:"partido_id,omitempty"`
	Number     int `json:"numero_set,omitempty"`
	HomePoints int `json:"puntos_local"`
	AwayPoints int `json:"puntos_visitante"`
}

func (r *httpSetRepository) ListByMatch(ctx context.Context, matchID int) ([]models.Set, error) {
	return apiclient.FetchList[models.Set](ctx, r.api, apiclient.RequestArgs{
		Endpoint:   "sets/partido/%v",
		PathParams: []any{matchID},
	})
}

func (r *httpSetRepository) Create(ctx context.Context, set *models.Set) error {
	created, err := apiclient.FetchItem[models.Set](ctx, r.api, apiclient.RequestArgs{
		Endpoint: "sets",
		Method:   http.MethodPost,
		Body: setPayload{
			MatchID:    set.MatchID,
			Number:     set.Number,
			HomePoints: set.HomePoints,
			AwayPoints: set.AwayPoints,
		},
	})
	if err != nil {
		return mapAPIError(err, nil, ErrSetConflict)
	}
	mergeSet(set, created)
	return nil
}

func (r *httpSetRepository) Update(ctx context.Context, set *models.Set) error {
	updated, err := apiclient.FetchItem[models.Set](ctx, r.api, apiclient.RequestArgs{
		Endpoint:   "sets/%v",
		Method:     http.MethodPut,
		PathParams: []any{set.ID},
		Body: setPayload{
			HomePoints: set.HomePoints,
			AwayPoints: set.AwayPoints,
		},
	})
	if err != nil {
		return mapAPIError(err, ErrSetNotFound, nil)
	}
	mergeSet(set, updated)
	return nil
}

func (r *httpSetRepository) Delete(ctx context.Context, id int) error {
	_, err := r.api.Do(ctx, apiclient.RequestArgs{
		Endpoint:   "sets/%v",
		Method:     http.MethodDelete,
		PathParams: []any{id},
	})
	return mapAPIError(err, ErrSetNotFound, nil)
}

// mergeSet copies what the API answered into dst; fields the answer left out keep the sent values.
func mergeSet(dst, src *models.Set) {
	if src == nil {
		return
	}
	if src.ID != 0 {
		dst.ID = src.ID
	}
	if src.MatchID != 0 {
		dst.MatchID = src.MatchID
	}
	if src.Number != 0 {
		dst.Number = src.Number
		dst.HomePoints = src.HomePoints
		dst.AwayPoints = src.AwayPoints
	}
	dst.Winner = src.Winner
	dst.Finished = src.Finished
}
