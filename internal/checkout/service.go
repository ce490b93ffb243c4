package checkout

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/internal/cart"
	"github.com/ordena-app/ordena-backend/internal/ordersession"
	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/enums"
	pkgerrors "github.com/ordena-app/ordena-backend/pkg/errors"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"github.com/ordena-app/ordena-backend/pkg/metrics"
)

// failure stages reported to metrics
const (
	stageGuard     = "guard"
	stageReconcile = "reconcile"
	stageSubmit    = "submit"
)

const genericSubmitMessage = "could not place order, check mode and address"

type cartStore interface {
	Snapshot(userID uuid.UUID) cart.Snapshot
	Clear(userID uuid.UUID) cart.Snapshot
}

type sessionStore interface {
	Get(ctx context.Context, userID uuid.UUID) (ordersession.Session, error)
	StartOrder(ctx context.Context, userID uuid.UUID, mode enums.FulfillmentMode, addressID *uuid.UUID) (ordersession.Session, error)
}

type addressDirectory interface {
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	DefaultAddressID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
}

type submitter interface {
	Submit(ctx context.Context, userID uuid.UUID, snapshot cart.Snapshot, mode enums.FulfillmentMode, addressID *uuid.UUID) (uuid.UUID, error)
}

// Event is one checkout outcome delivered on the event channel. Exactly
// one of OrderID and Err is set.
type Event struct {
	UserID  uuid.UUID
	OrderID *uuid.UUID
	Err     error
}

// Result is the synchronous view of a successful checkout.
type Result struct {
	OrderID   uuid.UUID             `json:"order_id"`
	Mode      enums.FulfillmentMode `json:"mode"`
	AddressID *uuid.UUID            `json:"address_id,omitempty"`
}

// Service turns "cart + order session" into exactly one submitted order.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*Result, error)
	Events() <-chan Event
}

type service struct {
	carts     cartStore
	sessions  sessionStore
	dir       addressDirectory
	submitter submitter
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger

	// inFlight guards the whole submit/finalize phase. A second checkout
	// while one is running is dropped, never queued.
	inFlight atomic.Bool
	events   chan Event
}

// NewService builds the checkout orchestrator.
func NewService(carts cartStore, sessions sessionStore, dir addressDirectory, sub submitter, m *metrics.CheckoutMetrics, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if dir == nil {
		return nil, fmt.Errorf("address directory required")
	}
	if sub == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		carts:     carts,
		sessions:  sessions,
		dir:       dir,
		submitter: sub,
		metrics:   m,
		logg:      logg,
		events:    make(chan Event, 16),
	}, nil
}

// Events exposes the outcome channel. Sends never block; when no consumer
// keeps up the oldest event is dropped in favor of the newest.
func (s *service) Events() <-chan Event {
	return s.events
}

// Checkout runs the guard, reconcile, submit, finalize sequence. Cart and
// session state are read after the in-flight guard is taken, never cached
// from an earlier point.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID) (*Result, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.metrics.IncDropped()
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a checkout is already in progress")
	}
	defer s.inFlight.Store(false)

	start := time.Now()
	snapshot := s.carts.Snapshot(userID)

	session, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, userID, stageGuard, snapshot.Mode, start,
			pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order session"))
	}

	if snapshot.IsEmpty() {
		return nil, s.fail(ctx, userID, stageGuard, snapshot.Mode, start,
			pkgerrors.New(pkgerrors.CodeValidation, "cart is empty"))
	}
	if !session.HasMode() {
		return nil, s.fail(ctx, userID, stageGuard, snapshot.Mode, start,
			pkgerrors.New(pkgerrors.CodeValidation, "choose pickup or delivery first"))
	}
	mode := *session.Mode

	var addressID *uuid.UUID
	if mode == enums.ModeDelivery {
		addressID, err = s.reconcileAddress(ctx, userID, session)
		if err != nil {
			return nil, s.fail(ctx, userID, stageReconcile, mode, start, err)
		}
	}

	orderID, err := s.submitter.Submit(ctx, userID, snapshot, mode, addressID)
	if err != nil {
		return nil, s.fail(ctx, userID, stageSubmit, mode, start, mapSubmitError(err))
	}

	s.carts.Clear(userID)
	s.metrics.IncSuccess()
	s.metrics.ObserveDuration(string(mode), time.Since(start))
	s.emit(Event{UserID: userID, OrderID: &orderID})

	ctx = s.logg.WithFields(ctx, map[string]any{"order_id": orderID, "mode": mode})
	s.logg.Info(ctx, "checkout completed")

	return &Result{OrderID: orderID, Mode: mode, AddressID: addressID}, nil
}

// reconcileAddress resolves the delivery address in strict priority order:
// the session address if it still exists, then the profile default, then
// the first saved address. A successful resolution that differs from the
// session value is written back before submission so later reads match
// what was submitted.
func (s *service) reconcileAddress(ctx context.Context, userID uuid.UUID, session ordersession.Session) (*uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to order delivery")
	}

	list, err := s.dir.ListAddresses(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing addresses")
	}

	resolved := resolveAddress(session.AddressID, list, func() *uuid.UUID {
		defaultID, err := s.dir.DefaultAddressID(ctx, userID)
		if err != nil {
			return nil
		}
		return defaultID
	})
	if resolved == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no valid delivery address, add one first")
	}

	if session.AddressID == nil || *session.AddressID != *resolved {
		if _, err := s.sessions.StartOrder(ctx, userID, enums.ModeDelivery, resolved); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resyncing order session")
		}
	}
	return resolved, nil
}

func resolveAddress(sessionID *uuid.UUID, list []models.Address, defaultID func() *uuid.UUID) *uuid.UUID {
	contains := func(id *uuid.UUID) bool {
		if id == nil {
			return false
		}
		for _, addr := range list {
			if addr.ID == *id {
				return true
			}
		}
		return false
	}

	if contains(sessionID) {
		return sessionID
	}
	if fallback := defaultID(); contains(fallback) {
		return fallback
	}
	if len(list) > 0 {
		first := list[0].ID
		return &first
	}
	return nil
}

// mapSubmitError collapses backend permission and validation failures into
// one generic user-safe message; everything else passes through verbatim.
func mapSubmitError(err error) error {
	if coded := pkgerrors.As(err); coded != nil {
		switch coded.Code() {
		case pkgerrors.CodeUnauthorized, pkgerrors.CodeForbidden, pkgerrors.CodeValidation:
			return pkgerrors.New(pkgerrors.CodeValidation, genericSubmitMessage)
		}
		return coded
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submitting order")
}

func (s *service) fail(ctx context.Context, userID uuid.UUID, stage string, mode enums.FulfillmentMode, start time.Time, err error) error {
	s.metrics.IncFailure(stage)
	s.metrics.ObserveDuration(string(mode), time.Since(start))
	s.emit(Event{UserID: userID, Err: err})

	ctx = s.logg.WithField(ctx, "stage", stage)
	s.logg.Warn(ctx, fmt.Sprintf("checkout failed: %v", err))
	return err
}

func (s *service) emit(event Event) {
	for {
		select {
		case s.events <- event:
			return
		default:
		}
		select {
		case <-s.events:
		default:
		}
	}
}
