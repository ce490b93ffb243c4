package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ordena-app/ordena-backend/api/controllers"
	"github.com/ordena-app/ordena-backend/api/middleware"
	"github.com/ordena-app/ordena-backend/internal/address"
	"github.com/ordena-app/ordena-backend/internal/cart"
	"github.com/ordena-app/ordena-backend/internal/catalog"
	checkoutsvc "github.com/ordena-app/ordena-backend/internal/checkout"
	"github.com/ordena-app/ordena-backend/internal/orders"
	"github.com/ordena-app/ordena-backend/internal/ordersession"
	"github.com/ordena-app/ordena-backend/pkg/config"
	"github.com/ordena-app/ordena-backend/pkg/db"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"github.com/ordena-app/ordena-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	cartStore *cart.Store,
	sessionStore *ordersession.Store,
	addressService address.Service,
	ordersService orders.Service,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	// Browsing the catalog needs no account.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.CatalogListProducts(catalogService, logg))
		r.Get("/{productId}", controllers.CatalogGetProduct(catalogService, logg))
	})
	r.Route("/api/v1/menus", func(r chi.Router) {
		r.Get("/", controllers.CatalogListMenus(catalogService, logg))
		r.Get("/{menuId}", controllers.CatalogGetMenu(catalogService, logg))
		r.Post("/{menuId}/quote", controllers.CatalogQuoteMenu(catalogService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartStore, logg))
			r.Delete("/", controllers.CartClear(cartStore, logg))
			r.Post("/mode", controllers.CartSetMode(cartStore, logg))
			r.Post("/products", controllers.CartAddProduct(cartStore, catalogService, logg))
			r.Post("/menus", controllers.CartAddMenu(cartStore, catalogService, logg))
			r.Patch("/lines/{lineId}", controllers.CartUpdateLine(cartStore, logg))
			r.Delete("/lines/{lineId}", controllers.CartRemoveLine(cartStore, logg))
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionGet(sessionStore, logg))
			r.Put("/", controllers.SessionStartOrder(sessionStore, logg))
			r.Delete("/", controllers.SessionClear(sessionStore, logg))
			r.Post("/browsing-only", controllers.SessionBrowsingOnly(sessionStore, logg))
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(addressService, logg))
			r.Post("/", controllers.AddressCreate(addressService, logg))
			r.Delete("/{addressId}", controllers.AddressDelete(addressService, logg))
			r.Put("/{addressId}/default", controllers.AddressSetDefault(addressService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(ordersService, logg))
			r.Get("/{orderId}", controllers.OrderGet(ordersService, logg))
		})

		r.Post("/checkout", controllers.Checkout(checkoutService, logg))
	})

	return r
}
