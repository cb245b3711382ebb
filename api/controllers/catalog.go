package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mvasquezdev/dealerhub-backend/api/middleware"
	"github.com/mvasquezdev/dealerhub-backend/api/responses"
	"github.com/mvasquezdev/dealerhub-backend/api/validators"
	catalogsvc "github.com/mvasquezdev/dealerhub-backend/internal/catalog"
	pkgerrors "github.com/mvasquezdev/dealerhub-backend/pkg/errors"
	"github.com/mvasquezdev/dealerhub-backend/pkg/logger"
	"github.com/mvasquezdev/dealerhub-backend/pkg/pagination"
)

// dealerIDFromContext parses the dealer claim seeded by the auth middleware.
// Admin requests have no dealer and price against the global rule chain.
func dealerIDFromContext(r *http.Request) (*uuid.UUID, error) {
	raw := middleware.DealerIDFromContext(r.Context())
	if raw == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid dealer context")
	}
	return &parsed, nil
}

// CatalogList returns a priced, visibility-filtered catalog page.
func CatalogList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		dealerID, err := dealerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quantity, err := validators.ParseQueryInt(r, "quantity", 1, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalogsvc.ListInput{
			DealerID: dealerID,
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: validators.QueryString(r, "cursor"),
			},
			CollectionID: validators.QueryString(r, "collection_id"),
			Vendor:       validators.QueryString(r, "vendor"),
			Query:        validators.QueryString(r, "q"),
			Quantity:     quantity,
		}

		page, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// CatalogGet returns one priced product.
func CatalogGet(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		dealerID, err := dealerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID := chi.URLParam(r, "productId")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		quantity, err := validators.ParseQueryInt(r, "quantity", 1, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), catalogsvc.GetInput{
			DealerID:  dealerID,
			ProductID: productID,
			Quantity:  quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}
