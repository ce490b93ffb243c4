package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/api/responses"
	"github.com/ordena-app/ordena-backend/api/validators"
	"github.com/ordena-app/ordena-backend/internal/catalog"
	"github.com/ordena-app/ordena-backend/pkg/enums"
	pkgerrors "github.com/ordena-app/ordena-backend/pkg/errors"
	"github.com/ordena-app/ordena-backend/pkg/logger"
)

// CatalogListProducts returns the active product listings.
func CatalogListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		products, err := svc.ListProducts(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// CatalogListMenus returns the active configurable menus.
func CatalogListMenus(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		menus, err := svc.ListMenus(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, menus)
	}
}

func CatalogGetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.GetProduct(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func CatalogGetMenu(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := uuid.Parse(chi.URLParam(r, "menuId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid menu id"))
			return
		}

		menu, err := svc.GetMenu(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, menu)
	}
}

type menuQuotePayload struct {
	Mode       string                   `json:"mode" validate:"required,oneof=pickup delivery"`
	Selections map[string][]pickPayload `json:"selections"`
}

type menuQuoteResponse struct {
	UnitPriceCents int                 `json:"unit_price_cents"`
	Violations     []catalog.Violation `json:"violations"`
	Valid          bool                `json:"valid"`
}

// CatalogQuoteMenu prices and validates a menu configuration without
// touching the cart. The storefront calls this on every selection change.
func CatalogQuoteMenu(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := uuid.Parse(chi.URLParam(r, "menuId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid menu id"))
			return
		}

		var payload menuQuotePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		selections, err := selectionsFromPayload(payload.Selections)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		menu, err := svc.GetMenu(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		violations := catalog.ValidateSelections(menu, selections)
		responses.WriteSuccess(w, menuQuoteResponse{
			UnitPriceCents: catalog.MenuUnitPrice(menu, selections, enums.FulfillmentMode(payload.Mode)),
			Violations:     violations,
			Valid:          len(violations) == 0,
		})
	}
}
