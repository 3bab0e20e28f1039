package repositories

import (
	"context"

	"github.com/Dosada05/tournament-admin/apiclient"
	"github.com/Dosada05/tournament-admin/models"
)

// CatalogRepository reads the closed action catalogs.
type CatalogRepository interface {
	ListActionTypes(ctx context.Context) ([]models.ActionType, error)
	ListActionResults(ctx context.Context) ([]models.ActionResult, error)
}

type httpCatalogRepository struct {
	api *apiclient.Client
}

func NewHTTPCatalogRepository(api *apiclient.Client) CatalogRepository {
	return &httpCatalogRepository{api: api}
}

func (r *httpCatalogRepository) ListActionTypes(ctx context.Context) ([]models.ActionType, error) {
	return apiclient.FetchList[models.ActionType](ctx, r.api, apiclient.RequestArgs{Endpoint: "tipos-accion"})
}

func (r *httpCatalogRepository) ListActionResults(ctx context.Context) ([]models.ActionResult, error) {
	return apiclient.FetchList[models.ActionResult](ctx, r.api, apiclient.RequestArgs{Endpoint: "resultados-accion"})
}
