package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/mvasquezdev/dealerhub-backend/api/responses"
	"github.com/mvasquezdev/dealerhub-backend/api/validators"
	dealersvc "github.com/mvasquezdev/dealerhub-backend/internal/dealers"
	pkgerrors "github.com/mvasquezdev/dealerhub-backend/pkg/errors"
	"github.com/mvasquezdev/dealerhub-backend/pkg/logger"
	"github.com/mvasquezdev/dealerhub-backend/pkg/pagination"
)

type createDealerRequest struct {
	CompanyName          string   `json:"company_name" validate:"required"`
	ContactEmail         string   `json:"contact_email" validate:"omitempty,email"`
	DiscountPercent      *float64 `json:"discount_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	DueDays              *int     `json:"due_days,omitempty" validate:"omitempty,gte=0"`
	AllowedCollectionIDs []string `json:"allowed_collection_ids,omitempty"`
	AllowedVendors       []string `json:"allowed_vendors,omitempty"`
}

// updateDealerRequest distinguishes "clear" from "leave alone" for nullable
// fields by whether the key was present in the JSON document.
type updateDealerRequest struct {
	CompanyName          *string         `json:"company_name,omitempty"`
	ContactEmail         *string         `json:"contact_email,omitempty" validate:"omitempty,email"`
	DiscountPercent      optionalFloat64 `json:"discount_percent"`
	DueDays              optionalInt     `json:"due_days"`
	AllowedCollectionIDs []string        `json:"allowed_collection_ids,omitempty"`
	AllowedVendors       []string        `json:"allowed_vendors,omitempty"`
	IsActive             *bool           `json:"is_active,omitempty"`
}

// optionalFloat64 tracks JSON key presence so null clears the column while an
// absent key leaves it untouched.
type optionalFloat64 struct {
	Set   bool
	Value *float64
}

func (o *optionalFloat64) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

type optionalInt struct {
	Set   bool
	Value *int
}

func (o *optionalInt) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// CreateDealer registers a new dealer account.
func CreateDealer(svc dealersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dealer service unavailable"))
			return
		}
		var body createDealerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dealer, err := svc.Create(r.Context(), dealersvc.CreateInput{
			CompanyName:          body.CompanyName,
			ContactEmail:         body.ContactEmail,
			DiscountPercent:      body.DiscountPercent,
			DueDays:              body.DueDays,
			AllowedCollectionIDs: body.AllowedCollectionIDs,
			AllowedVendors:       body.AllowedVendors,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dealer)
	}
}

// ListDealers returns a cursor page of dealer accounts.
func ListDealers(svc dealersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dealer service unavailable"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: validators.QueryString(r, "cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// GetDealer returns one dealer account.
func GetDealer(svc dealersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dealer service unavailable"))
			return
		}
		dealerID, err := parseDealerParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dealer, err := svc.Get(r.Context(), dealerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dealer)
	}
}

// UpdateDealer applies a partial update to a dealer account.
func UpdateDealer(svc dealersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dealer service unavailable"))
			return
		}
		dealerID, err := parseDealerParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateDealerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dealer, err := svc.Update(r.Context(), dealerID, dealersvc.UpdateInput{
			CompanyName:          body.CompanyName,
			ContactEmail:         body.ContactEmail,
			DiscountPercent:      body.DiscountPercent.Value,
			SetDiscountPercent:   body.DiscountPercent.Set,
			DueDays:              body.DueDays.Value,
			SetDueDays:           body.DueDays.Set,
			AllowedCollectionIDs: body.AllowedCollectionIDs,
			AllowedVendors:       body.AllowedVendors,
			IsActive:             body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dealer)
	}
}
