package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
	pkgerrors "github.com/ordena-app/ordena-backend/pkg/errors"
)

type catalogReader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindMenuByID(ctx context.Context, id uuid.UUID) (*models.Menu, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListMenus(ctx context.Context) ([]models.Menu, error)
}

// Service exposes catalog read operations with coded errors.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetMenu(ctx context.Context, id uuid.UUID) (*models.Menu, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListMenus(ctx context.Context) ([]models.Menu, error)
}

type service struct {
	repo catalogReader
}

// NewService builds a catalog service backed by the provided reader.
func NewService(repo catalogReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

func (s *service) GetMenu(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	menu, err := s.repo.FindMenuByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading menu")
	}
	return menu, nil
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return products, nil
}

func (s *service) ListMenus(ctx context.Context) ([]models.Menu, error) {
	menus, err := s.repo.ListMenus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing menus")
	}
	return menus, nil
}
