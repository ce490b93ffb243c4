package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/api/middleware"
	"github.com/ordena-app/ordena-backend/api/responses"
	"github.com/ordena-app/ordena-backend/api/validators"
	"github.com/ordena-app/ordena-backend/internal/cart"
	"github.com/ordena-app/ordena-backend/internal/catalog"
	"github.com/ordena-app/ordena-backend/pkg/enums"
	pkgerrors "github.com/ordena-app/ordena-backend/pkg/errors"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"github.com/ordena-app/ordena-backend/pkg/types"
)

type pickPayload struct {
	OptionID      string   `json:"option_id" validate:"required,uuid"`
	Customization []string `json:"customization,omitempty"`
}

// selectionsFromPayload converts the wire shape into domain selections.
func selectionsFromPayload(raw map[string][]pickPayload) (types.Selections, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	selections := make(types.Selections, len(raw))
	for groupID, picks := range raw {
		converted := make(types.GroupSelection, 0, len(picks))
		for _, pick := range picks {
			optionID, err := uuid.Parse(pick.OptionID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid option id").
					WithDetails(map[string]any{"group_id": groupID, "option_id": pick.OptionID})
			}
			converted = append(converted, types.OptionPick{
				OptionID:      optionID,
				Customization: types.Customization(pick.Customization),
			})
		}
		selections[groupID] = converted
	}
	return selections, nil
}

// CartGet returns the current cart snapshot.
func CartGet(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, store.Snapshot(middleware.UserIDFromContext(r.Context())))
	}
}

type setModePayload struct {
	Mode string `json:"mode" validate:"required,oneof=pickup delivery"`
}

// CartSetMode switches the fulfillment mode without repricing lines.
func CartSetMode(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload setModePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snap := store.SetMode(middleware.UserIDFromContext(ctx), enums.FulfillmentMode(payload.Mode))
		responses.WriteSuccess(w, snap)
	}
}

type addProductPayload struct {
	ProductID     string   `json:"product_id" validate:"required,uuid"`
	Customization []string `json:"customization,omitempty"`
	Quantity      int      `json:"quantity" validate:"omitempty,min=1"`
}

// CartAddProduct prices the product at the cart's current mode and merges
// it into the cart.
func CartAddProduct(store *cart.Store, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload addProductPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := catalogSvc.GetProduct(ctx, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		qty := payload.Quantity
		if qty == 0 {
			qty = 1
		}

		snap := store.AddProduct(middleware.UserIDFromContext(ctx), product, types.Customization(payload.Customization), qty)
		responses.WriteSuccessStatus(w, http.StatusCreated, snap)
	}
}

type addMenuPayload struct {
	MenuID     string                   `json:"menu_id" validate:"required,uuid"`
	Selections map[string][]pickPayload `json:"selections"`
	Quantity   int                      `json:"quantity" validate:"omitempty,min=1"`
}

// CartAddMenu validates the configuration against the menu's groups, then
// prices and merges it into the cart. Invalid selections never reach the
// cart.
func CartAddMenu(store *cart.Store, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload addMenuPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		menuID, err := uuid.Parse(payload.MenuID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid menu id"))
			return
		}

		selections, err := selectionsFromPayload(payload.Selections)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		menu, err := catalogSvc.GetMenu(ctx, menuID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if violations := catalog.ValidateSelections(menu, selections); len(violations) > 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "menu configuration is not valid").
				WithDetails(map[string]any{"violations": violations}))
			return
		}

		qty := payload.Quantity
		if qty == 0 {
			qty = 1
		}

		snap := store.AddMenu(middleware.UserIDFromContext(ctx), menu, selections, qty)
		responses.WriteSuccessStatus(w, http.StatusCreated, snap)
	}
}

type updateLinePayload struct {
	Quantity int `json:"quantity"`
}

// CartUpdateLine sets a line's quantity; zero or negative removes it.
func CartUpdateLine(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		lineID, err := uuid.Parse(chi.URLParam(r, "lineId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id"))
			return
		}

		var payload updateLinePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snap := store.UpdateQuantity(middleware.UserIDFromContext(ctx), lineID, payload.Quantity)
		responses.WriteSuccess(w, snap)
	}
}

// CartRemoveLine deletes the line; unknown ids are a no-op.
func CartRemoveLine(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		lineID, err := uuid.Parse(chi.URLParam(r, "lineId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id"))
			return
		}

		snap := store.Remove(middleware.UserIDFromContext(ctx), lineID)
		responses.WriteSuccess(w, snap)
	}
}

// CartClear empties the cart but keeps the chosen mode.
func CartClear(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, store.Clear(middleware.UserIDFromContext(r.Context())))
	}
}
