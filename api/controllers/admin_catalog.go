package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvasquezdev/dealerhub-backend/api/responses"
	"github.com/mvasquezdev/dealerhub-backend/api/validators"
	catalogsvc "github.com/mvasquezdev/dealerhub-backend/internal/catalog"
	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
	pkgerrors "github.com/mvasquezdev/dealerhub-backend/pkg/errors"
	"github.com/mvasquezdev/dealerhub-backend/pkg/logger"
)

type syncVariantRequest struct {
	ID           string          `json:"id" validate:"required"`
	Title        string          `json:"title"`
	SKU          string          `json:"sku"`
	RetailPrice  decimal.Decimal `json:"retail_price"`
	InventoryQty int             `json:"inventory_qty" validate:"gte=0"`
}

type syncProductRequest struct {
	ID            string               `json:"id" validate:"required"`
	Title         string               `json:"title" validate:"required"`
	Handle        string               `json:"handle"`
	Vendor        string               `json:"vendor"`
	IsActive      *bool                `json:"is_active,omitempty"`
	CollectionIDs []string             `json:"collection_ids,omitempty"`
	Variants      []syncVariantRequest `json:"variants" validate:"dive"`
}

type syncProductsRequest struct {
	Products []syncProductRequest `json:"products" validate:"required,min=1,dive"`
}

type syncCollectionRequest struct {
	ID    string `json:"id" validate:"required"`
	Title string `json:"title" validate:"required"`
}

type syncCollectionsRequest struct {
	Collections []syncCollectionRequest `json:"collections" validate:"required,min=1,dive"`
}

// SyncCatalogProducts ingests a storefront product snapshot. Existing rows
// are upserted and stale variants removed, so replays converge.
func SyncCatalogProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body syncProductsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		now := time.Now().UTC()
		products := make([]models.Product, 0, len(body.Products))
		for _, row := range body.Products {
			isActive := true
			if row.IsActive != nil {
				isActive = *row.IsActive
			}

			variants := make([]models.ProductVariant, 0, len(row.Variants))
			for _, variant := range row.Variants {
				variants = append(variants, models.ProductVariant{
					ID:           strings.TrimSpace(variant.ID),
					ProductID:    strings.TrimSpace(row.ID),
					Title:        variant.Title,
					SKU:          variant.SKU,
					RetailPrice:  variant.RetailPrice,
					InventoryQty: variant.InventoryQty,
				})
			}

			collections := make([]models.Collection, 0, len(row.CollectionIDs))
			for _, collectionID := range row.CollectionIDs {
				trimmed := strings.TrimSpace(collectionID)
				if trimmed == "" {
					continue
				}
				collections = append(collections, models.Collection{ID: trimmed})
			}

			products = append(products, models.Product{
				ID:          strings.TrimSpace(row.ID),
				Title:       row.Title,
				Handle:      row.Handle,
				Vendor:      row.Vendor,
				IsActive:    isActive,
				Variants:    variants,
				Collections: collections,
				SyncedAt:    now,
			})
		}

		if err := svc.SyncProducts(r.Context(), products); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int{"synced": len(products)})
	}
}

// SyncCatalogCollections ingests a storefront collection snapshot.
func SyncCatalogCollections(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body syncCollectionsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		now := time.Now().UTC()
		collections := make([]models.Collection, 0, len(body.Collections))
		for _, row := range body.Collections {
			collections = append(collections, models.Collection{
				ID:       strings.TrimSpace(row.ID),
				Title:    row.Title,
				SyncedAt: now,
			})
		}

		if err := svc.SyncCollections(r.Context(), collections); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int{"synced": len(collections)})
	}
}
