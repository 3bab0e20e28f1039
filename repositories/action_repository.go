package repositories

import (
	"context"
	"errors"
	"net/http"

	"github.com/Dosada05/tournament-admin/apiclient"
	"github.com/Dosada05/tournament-admin/models"
)

var ErrActionNotFound = errors.New("scoring action not found")

type ActionRepository interface {
	ListBySet(ctx context.Context, setID int) ([]models.ScoringAction, error)
	Create(ctx context.Context, action *models.ScoringAction) error
	Delete(ctx context.Context, id int) error
}

type httpActionRepository struct {
	api *apiclient.Client
}

func NewHTTPActionRepository(api *apiclient.Client) ActionRepository {
	return &httpActionRepository{api: api}
}

type actionPayload struct {
	SetID          int `json:"set_id"`
	ActionTypeID   int `json:"tipo_accion_id"`
	ActionResultID int `json:"resultado_accion_id"`
	RosterPlayerID int `json:"roster_id"`
	CourtPosition  int `json:"posicion_cancha"`
}

func (r *httpActionRepository) ListBySet(ctx context.Context, setID int) ([]models.ScoringAction, error) {
	return apiclient.FetchList[models.ScoringAction](ctx, r.api, apiclient.RequestArgs{
		Endpoint:   "acciones-juego/set/%v",
		PathParams: []any{setID},
	})
}

func (r *httpActionRepository) Create(ctx context.Context, action *models.ScoringAction) error {
	created, err := apiclient.FetchItem[models.ScoringAction](ctx, r.api, apiclient.RequestArgs{
		Endpoint: "acciones-juego",
		Method:   http.MethodPost,
		Body: actionPayload{
			SetID:          action.SetID,
			ActionTypeID:   action.ActionTypeID,
			ActionResultID: action.ActionResultID,
			RosterPlayerID: action.RosterPlayerID,
			CourtPosition:  action.CourtPosition,
		},
	})
	if err != nil {
		return mapAPIError(err, ErrSetNotFound, nil)
	}
	if created != nil {
		action.ID = created.ID
		action.CreatedAt = created.CreatedAt
	}
	return nil
}

func (r *httpActionRepository) Delete(ctx context.Context, id int) error {
	_, err := r.api.Do(ctx, apiclient.RequestArgs{
		Endpoint:   "acciones-juego/%v",
		Method:     http.MethodDelete,
		PathParams: []any{id},
	})
	return mapAPIError(err, ErrActionNotFound, nil)
}
