package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mvasquezdev/dealerhub-backend/api/responses"
	"github.com/mvasquezdev/dealerhub-backend/api/validators"
	discountsvc "github.com/mvasquezdev/dealerhub-backend/internal/discounts"
	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/mvasquezdev/dealerhub-backend/pkg/errors"
	"github.com/mvasquezdev/dealerhub-backend/pkg/logger"
)

type percentRequest struct {
	Percent float64 `json:"percent" validate:"gte=0,lte=100"`
}

type tierRequest struct {
	Scope       string  `json:"scope" validate:"required"`
	ReferenceID string  `json:"reference_id" validate:"required"`
	MinQuantity int     `json:"min_quantity" validate:"required,gte=1"`
	Percent     float64 `json:"percent" validate:"gte=0,lte=100"`
}

func requireDiscountService(svc discountsvc.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request) bool {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
		return false
	}
	return true
}

func parseDealerParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "dealerId"))
	dealerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid dealer id")
	}
	return dealerID, nil
}

// UpsertProductDiscount writes the blanket rule for one product.
func UpsertProductDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireDiscountService(svc, logg, w, r) {
			return
		}
		var body percentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rule, err := svc.UpsertProductDiscount(r.Context(), chi.URLParam(r, "productId"), body.Percent)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rule)
	}
}

// ListProductDiscounts returns every product-level rule.
func ListProductDiscounts(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireDiscountService(svc, logg, w, r) {
			return
		}
		rules, err := svc.ListProductDiscounts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rules)
	}
}

// DeleteProductDiscount removes the blanket rule for one product.
func DeleteProductDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireDiscountService(svc, logg, w, r) {
			return
		}
		if err := svc.DeleteProductDiscount(r.Context(), chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// UpsertCategoryDiscount writes the rule for one collection.
func UpsertCategoryDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireDiscountService(svc, logg, w, r) {
			return
		}
		var body percentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rule, err := svc.UpsertCategoryDiscount(r.Context(), chi.URLParam(r, "collectionId"), body.Percent)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rule)
	}
}

// ListCategoryDiscounts returns every collection-level rule.
func ListCategoryDiscounts(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireDiscountService(svc, logg, w, r) {
			return
		}
		rules, err := svc.ListCategoryDiscounts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rules)
	}
}

// DeleteCategoryDiscount removes the rule for one collection.
func DeleteCategoryDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireDiscountService(svc, logg, w, r) {
			return
		}
		if err := svc.DeleteCategoryDiscount(r.Context(), chi.URLParam(r, "collectionId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// UpsertDealerProductDiscount writes a dealer's override for one product.
func UpsertDealerProductDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireDiscountService(svc, logg, w, r) {
			return
		}
		dealerID, err := parseDealerParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body percentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rule, err := svc.UpsertDealerProductDiscount(r.Context(), dealerID, chi.URLParam(r, "productId"), body.Percent)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rule)
	}
}

// DeleteDealerProductDiscount removes a dealer's override for one product.
func DeleteDealerProductDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireDiscountService(svc, logg, w, r) {
			return
		}
		dealerID, err := parseDealerParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteDealerProductDiscount(r.Context(), dealerID, chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// UpsertDealerCategoryDiscount writes a dealer's override for one collection.
func UpsertDealerCategoryDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireDiscountService(svc, logg, w, r) {
			return
		}
		dealerID, err := parseDealerParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body percentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rule, err := svc.UpsertDealerCategoryDiscount(r.Context(), dealerID, chi.URLParam(r, "collectionId"), body.Percent)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rule)
	}
}

// DeleteDealerCategoryDiscount removes a dealer's override for one collection.
func DeleteDealerCategoryDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireDiscountService(svc, logg, w, r) {
			return
		}
		dealerID, err := parseDealerParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteDealerCategoryDiscount(r.Context(), dealerID, chi.URLParam(r, "collectionId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ListDealerDiscounts returns both override flavors for one dealer.
func ListDealerDiscounts(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireDiscountService(svc, logg, w, r) {
			return
		}
		dealerID, err := parseDealerParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rules, err := svc.ListDealerDiscounts(r.Context(), dealerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rules)
	}
}

func parseTierScope(raw string) (enums.DiscountScope, error) {
	scope, err := enums.ParseDiscountScope(strings.TrimSpace(raw))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tier scope")
	}
	return scope, nil
}

// UpsertDiscountTier writes one quantity tier.
func UpsertDiscountTier(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireDiscountService(svc, logg, w, r) {
			return
		}
		var body tierRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope, err := parseTierScope(body.Scope)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tier, err := svc.UpsertTier(r.Context(), discountsvc.TierInput{
			Scope:       scope,
			ReferenceID: body.ReferenceID,
			MinQuantity: body.MinQuantity,
			Percent:     body.Percent,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tier)
	}
}

// ListDiscountTiers returns the tier ladder for one scope/reference pair.
func ListDiscountTiers(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireDiscountService(svc, logg, w, r) {
			return
		}
		scope, err := parseTierScope(validators.QueryString(r, "scope"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tiers, err := svc.ListTiers(r.Context(), scope, validators.QueryString(r, "reference_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tiers)
	}
}

// DeleteDiscountTier removes one tier by its natural key.
func DeleteDiscountTier(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireDiscountService(svc, logg, w, r) {
			return
		}
		scope, err := parseTierScope(validators.QueryString(r, "scope"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		minQuantity, err := validators.ParseQueryInt(r, "min_quantity", 0, 1, 1000000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteTier(r.Context(), scope, validators.QueryString(r, "reference_id"), minQuantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
