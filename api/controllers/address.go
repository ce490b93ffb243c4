package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/api/middleware"
	"github.com/ordena-app/ordena-backend/api/responses"
	"github.com/ordena-app/ordena-backend/api/validators"
	"github.com/ordena-app/ordena-backend/internal/address"
	pkgerrors "github.com/ordena-app/ordena-backend/pkg/errors"
	"github.com/ordena-app/ordena-backend/pkg/logger"
)

// AddressList returns the user's saved addresses plus the default id.
func AddressList(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := middleware.UserIDFromContext(ctx)

		list, err := svc.ListAddresses(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		defaultID, err := svc.DefaultAddressID(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"addresses":          list,
			"default_address_id": defaultID,
		})
	}
}

type createAddressPayload struct {
	Label       string  `json:"label" validate:"required,max=64"`
	Line1       string  `json:"line1" validate:"required,max=128"`
	Line2       *string `json:"line2,omitempty" validate:"omitempty,max=128"`
	City        string  `json:"city" validate:"required,max=64"`
	Region      string  `json:"region" validate:"required,max=64"`
	PostalCode  string  `json:"postal_code" validate:"required,max=16"`
	MakeDefault bool    `json:"make_default"`
}

func AddressCreate(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createAddressPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		created, err := svc.CreateAddress(ctx, middleware.UserIDFromContext(ctx), address.CreateAddressInput{
			Label:       payload.Label,
			Line1:       payload.Line1,
			Line2:       payload.Line2,
			City:        payload.City,
			Region:      payload.Region,
			PostalCode:  payload.PostalCode,
			MakeDefault: payload.MakeDefault,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func AddressDelete(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		addressID, err := uuid.Parse(chi.URLParam(r, "addressId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address id"))
			return
		}

		if err := svc.DeleteAddress(ctx, middleware.UserIDFromContext(ctx), addressID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AddressSetDefault(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		addressID, err := uuid.Parse(chi.URLParam(r, "addressId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address id"))
			return
		}

		if err := svc.SetDefaultAddress(ctx, middleware.UserIDFromContext(ctx), addressID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}
