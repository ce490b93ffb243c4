package address

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
	pkgerrors "github.com/ordena-app/ordena-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes address book operations and the directory reads used by
// checkout reconciliation.
type Service interface {
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	DefaultAddressID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
	CreateAddress(ctx context.Context, userID uuid.UUID, input CreateAddressInput) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) error
}

// CreateAddressInput captures the payload for a new address.
type CreateAddressInput struct {
	Label       string
	Line1       string
	Line2       *string
	City        string
	Region      string
	PostalCode  string
	MakeDefault bool
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService builds an address service backed by the provided stack.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	addresses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing addresses")
	}
	return addresses, nil
}

func (s *service) DefaultAddressID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	profile, err := s.repo.FindProfile(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading profile")
	}
	if profile == nil {
		return nil, nil
	}
	return profile.DefaultAddressID, nil
}

func (s *service) CreateAddress(ctx context.Context, userID uuid.UUID, input CreateAddressInput) (*models.Address, error) {
	addr := &models.Address{
		ID:         uuid.New(),
		UserID:     userID,
		Label:      input.Label,
		Line1:      input.Line1,
		Line2:      input.Line2,
		City:       input.City,
		Region:     input.Region,
		PostalCode: input.PostalCode,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, addr); err != nil {
			return err
		}
		if input.MakeDefault {
			return repo.SetDefaultAddress(ctx, userID, &addr.ID)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating address")
	}
	return addr, nil
}

// DeleteAddress removes the address and, in the same transaction, clears
// the profile default if it pointed at the deleted row.
func (s *service) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		profile, err := repo.FindProfile(ctx, userID)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, userID, addressID); err != nil {
			return err
		}
		if profile != nil && profile.DefaultAddressID != nil && *profile.DefaultAddressID == addressID {
			return repo.SetDefaultAddress(ctx, userID, nil)
		}
		return nil
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting address")
	}
	return nil
}

func (s *service) SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, userID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading address")
	}
	if err := s.repo.SetDefaultAddress(ctx, userID, &addressID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "setting default address")
	}
	return nil
}
