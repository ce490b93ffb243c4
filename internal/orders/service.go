package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/internal/cart"
	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/enums"
	pkgerrors "github.com/ordena-app/ordena-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service persists submitted orders and serves order history reads.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, snapshot cart.Snapshot, mode enums.FulfillmentMode, addressID *uuid.UUID) (uuid.UUID, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService builds an order service backed by the provided stack.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Submit writes the order header and all priced lines atomically and
// returns the new order id.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, snapshot cart.Snapshot, mode enums.FulfillmentMode, addressID *uuid.UUID) (uuid.UUID, error) {
	if userID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if snapshot.IsEmpty() {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot submit an empty cart")
	}
	if mode == enums.ModeDelivery && addressID == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery orders require an address")
	}

	order := &models.Order{
		ID:         uuid.New(),
		UserID:     userID,
		Mode:       mode,
		AddressID:  addressID,
		Status:     enums.OrderStatusPlaced,
		ItemCount:  snapshot.ItemCount,
		TotalCents: snapshot.SubtotalCents,
		Lines:      make([]models.OrderLine, 0, len(snapshot.Lines)),
	}

	for _, line := range snapshot.Lines {
		persisted := models.OrderLine{
			ID:             uuid.New(),
			OrderID:        order.ID,
			Kind:           line.Kind,
			ItemID:         line.ItemID,
			Name:           line.Name,
			ImageURL:       line.ImageURL,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			SubtotalCents:  line.SubtotalCents(),
		}
		switch line.Kind {
		case enums.LineKindMenu:
			persisted.Selections = line.Selections
		case enums.LineKindProduct:
			persisted.Customization = line.Customization
		default:
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown line kind %q", line.Kind))
		}
		order.Lines = append(order.Lines, persisted)
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting order")
	}
	return order.ID, nil
}

func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return list, nil
}
