package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/api/middleware"
	"github.com/ordena-app/ordena-backend/api/responses"
	"github.com/ordena-app/ordena-backend/api/validators"
	"github.com/ordena-app/ordena-backend/internal/ordersession"
	"github.com/ordena-app/ordena-backend/pkg/enums"
	pkgerrors "github.com/ordena-app/ordena-backend/pkg/errors"
	"github.com/ordena-app/ordena-backend/pkg/logger"
)

// SessionGet returns the current order session triple.
func SessionGet(store *ordersession.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session, err := store.Get(ctx, middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order session"))
			return
		}
		responses.WriteSuccess(w, session)
	}
}

type startOrderPayload struct {
	Mode      string  `json:"mode" validate:"required,oneof=pickup delivery"`
	AddressID *string `json:"address_id,omitempty" validate:"omitempty,uuid"`
}

// SessionStartOrder sets mode and optional address and clears
// browsing-only.
func SessionStartOrder(store *ordersession.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload startOrderPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var addressID *uuid.UUID
		if payload.AddressID != nil {
			parsed, err := uuid.Parse(*payload.AddressID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address id"))
				return
			}
			addressID = &parsed
		}

		session, err := store.StartOrder(ctx, middleware.UserIDFromContext(ctx), enums.FulfillmentMode(payload.Mode), addressID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving order session"))
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// SessionBrowsingOnly marks the session as browsing without a chosen
// fulfillment path.
func SessionBrowsingOnly(store *ordersession.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session, err := store.SetBrowsingOnly(ctx, middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving order session"))
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// SessionClear resets the session to the empty triple.
func SessionClear(store *ordersession.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := store.Clear(ctx, middleware.UserIDFromContext(ctx)); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing order session"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
