// File: repositories/roster_repository.go
package repositories

import (
	"context"

	"github.com/Dosada05/tournament-admin/apiclient"
	"github.com/Dosada05/tournament-admin/models"
)

type RosterRepository interface {
	ListByRegistration(ctx context.Context, registrationID int) ([]models.RosterPlayer, error)
}

type httpRosterRepository struct {
	api *apiclient.Client
}

func NewHTTPRosterRepository(api *apiclient.Client) RosterRepository {
	return &httpRosterRepository{api: api}
}

func (r *httpRosterRepository) ListByRegistration(ctx context.Context, registrationID int) ([]models.RosterPlayer, error) {
	return apiclient.FetchList[models.RosterPlayer](ctx, r.api, apiclient.RequestArgs{
		Endpoint:   "roster/inscripciones/%v",
		PathParams: []any{registrationID},
	})
}
