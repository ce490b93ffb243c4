package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/internal/address"
	"github.com/ordena-app/ordena-backend/internal/cart"
	checkoutsvc "github.com/ordena-app/ordena-backend/internal/checkout"
	"github.com/ordena-app/ordena-backend/internal/ordersession"
	"github.com/ordena-app/ordena-backend/pkg/config"
	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/enums"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"github.com/ordena-app/ordena-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return &models.Product{ID: id}, nil
}

func (stubCatalogService) GetMenu(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	return &models.Menu{ID: id}, nil
}

func (stubCatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return nil, nil
}

func (stubCatalogService) ListMenus(ctx context.Context) ([]models.Menu, error) {
	return nil, nil
}

type stubAddressService struct{}

func (stubAddressService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	return nil, nil
}

func (stubAddressService) DefaultAddressID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	return nil, nil
}

func (stubAddressService) CreateAddress(ctx context.Context, userID uuid.UUID, input address.CreateAddressInput) (*models.Address, error) {
	return nil, nil
}

func (stubAddressService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	return nil
}

func (stubAddressService) SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	return nil
}

type stubOrdersService struct{}

func (stubOrdersService) Submit(ctx context.Context, userID uuid.UUID, snapshot cart.Snapshot, mode enums.FulfillmentMode, addressID *uuid.UUID) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (stubOrdersService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	return &models.Order{}, nil
}

func (stubOrdersService) ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Checkout(ctx context.Context, userID uuid.UUID) (*checkoutsvc.Result, error) {
	return &checkoutsvc.Result{}, nil
}

func (stubCheckoutService) Events() <-chan checkoutsvc.Event {
	return nil
}

type noopSessionStorage struct{}

func (noopSessionStorage) Load(ctx context.Context, userID uuid.UUID) (ordersession.Session, bool, error) {
	return ordersession.Session{}, false, nil
}

func (noopSessionStorage) Save(ctx context.Context, userID uuid.UUID, session ordersession.Session) error {
	return nil
}

func (noopSessionStorage) Delete(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "ordena-test"

	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})

	sessionStore, err := ordersession.NewStore(noopSessionStorage{})
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}

	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubCatalogService{},
		cart.NewStore(),
		sessionStore,
		stubAddressService{},
		stubOrdersService{},
		stubCheckoutService{},
	)
}

func TestRouterHealthLive(t *testing.T) {
	router := testRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Ordena-Env"); got != "test" {
		t.Fatalf("expected env header test got %q", got)
	}
}

func TestRouterCatalogIsPublic(t *testing.T) {
	router := testRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouterCartRequiresAuth(t *testing.T) {
	router := testRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRouterCheckoutRequiresAuth(t *testing.T) {
	router := testRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRouterMetricsExposed(t *testing.T) {
	router := testRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
