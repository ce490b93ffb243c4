package controllers

import (
	"net/http"

	"github.com/ordena-app/ordena-backend/api/middleware"
	"github.com/ordena-app/ordena-backend/api/responses"
	"github.com/ordena-app/ordena-backend/internal/checkout"
	"github.com/ordena-app/ordena-backend/pkg/logger"
)

// Checkout submits the current cart using the order session's mode and
// address. At most one submission runs at a time; a concurrent attempt is
// rejected with a conflict.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		result, err := svc.Checkout(ctx, middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
