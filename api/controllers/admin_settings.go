package controllers

import (
	"net/http"

	"github.com/mvasquezdev/dealerhub-backend/api/responses"
	"github.com/mvasquezdev/dealerhub-backend/api/validators"
	settingssvc "github.com/mvasquezdev/dealerhub-backend/internal/settings"
	pkgerrors "github.com/mvasquezdev/dealerhub-backend/pkg/errors"
	"github.com/mvasquezdev/dealerhub-backend/pkg/logger"
)

type updateSettingsRequest struct {
	DiscountPercent *float64 `json:"discount_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	DefaultDueDays  *int     `json:"default_due_days,omitempty" validate:"omitempty,gte=0"`
}

// GetSettings returns the portal-wide configuration singleton.
func GetSettings(svc settingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		settings, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}

// UpdateSettings applies a partial update to the singleton; omitted fields
// keep their current value.
func UpdateSettings(svc settingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		var body updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		settings, err := svc.Update(r.Context(), settingssvc.UpdateInput{
			DiscountPercent: body.DiscountPercent,
			DefaultDueDays:  body.DefaultDueDays,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}
