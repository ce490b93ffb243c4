package checkout

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/internal/cart"
	"github.com/ordena-app/ordena-backend/internal/ordersession"
	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/enums"
	pkgerrors "github.com/ordena-app/ordena-backend/pkg/errors"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"github.com/ordena-app/ordena-backend/pkg/types"
)

type fakeCarts struct {
	mu      sync.Mutex
	snap    cart.Snapshot
	cleared int
}

func (f *fakeCarts) Snapshot(uuid.UUID) cart.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeCarts) Clear(uuid.UUID) cart.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	f.snap = cart.Snapshot{Mode: f.snap.Mode}
	return f.snap
}

func (f *fakeCarts) clearCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cleared
}

type startOrderCall struct {
	mode      enums.FulfillmentMode
	addressID *uuid.UUID
}

type fakeSessions struct {
	mu      sync.Mutex
	session ordersession.Session
	getErr  error
	starts  []startOrderCall
}

func (f *fakeSessions) Get(context.Context, uuid.UUID) (ordersession.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, f.getErr
}

func (f *fakeSessions) StartOrder(_ context.Context, _ uuid.UUID, mode enums.FulfillmentMode, addressID *uuid.UUID) (ordersession.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts = append(f.starts, startOrderCall{mode: mode, addressID: addressID})
	f.session = ordersession.Session{Mode: &mode, AddressID: addressID}
	return f.session, nil
}

type fakeDirectory struct {
	list      []models.Address
	defaultID *uuid.UUID
	listErr   error
}

func (f *fakeDirectory) ListAddresses(context.Context, uuid.UUID) ([]models.Address, error) {
	return f.list, f.listErr
}

func (f *fakeDirectory) DefaultAddressID(context.Context, uuid.UUID) (*uuid.UUID, error) {
	return f.defaultID, nil
}

type submitCall struct {
	snapshot  cart.Snapshot
	mode      enums.FulfillmentMode
	addressID *uuid.UUID
}

type fakeSubmitter struct {
	mu      sync.Mutex
	orderID uuid.UUID
	err     error
	calls   []submitCall
	block   chan struct{} // when set, Submit waits until closed
}

func (f *fakeSubmitter) Submit(_ context.Context, _ uuid.UUID, snapshot cart.Snapshot, mode enums.FulfillmentMode, addressID *uuid.UUID) (uuid.UUID, error) {
	f.mu.Lock()
	f.calls = append(f.calls, submitCall{snapshot: snapshot, mode: mode, addressID: addressID})
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.err != nil {
		return uuid.Nil, f.err
	}
	return f.orderID, nil
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard})
}

func filledSnapshot() cart.Snapshot {
	return cart.Snapshot{
		Mode: enums.ModePickup,
		Lines: []cart.Line{{
			ID:             uuid.New(),
			Kind:           enums.LineKindProduct,
			ItemID:         uuid.New(),
			Name:           "Empanada",
			UnitPriceCents: 450,
			Quantity:       2,
			Customization:  types.Customization{"onion"},
		}},
		ItemCount:     2,
		SubtotalCents: 900,
	}
}

func sessionWithMode(mode enums.FulfillmentMode, addressID *uuid.UUID) ordersession.Session {
	return ordersession.Session{Mode: &mode, AddressID: addressID}
}

func newTestService(t *testing.T, carts *fakeCarts, sessions *fakeSessions, dir *fakeDirectory, sub *fakeSubmitter) Service {
	t.Helper()
	svc, err := NewService(carts, sessions, dir, sub, nil, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCheckoutGuardEmptyCart(t *testing.T) {
	carts := &fakeCarts{snap: cart.Snapshot{Mode: enums.ModePickup}}
	sub := &fakeSubmitter{orderID: uuid.New()}
	svc := newTestService(t, carts, &fakeSessions{session: sessionWithMode(enums.ModePickup, nil)}, &fakeDirectory{}, sub)

	_, err := svc.Checkout(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected guard error for empty cart")
	}
	if sub.callCount() != 0 {
		t.Fatalf("expected no submission, got %d", sub.callCount())
	}
	if carts.clearCount() != 0 {
		t.Fatal("failed checkout must not clear the cart")
	}

	event := <-svc.Events()
	if event.Err == nil {
		t.Fatal("expected error event")
	}
}

func TestCheckoutGuardNoMode(t *testing.T) {
	carts := &fakeCarts{snap: filledSnapshot()}
	sub := &fakeSubmitter{orderID: uuid.New()}
	svc := newTestService(t, carts, &fakeSessions{}, &fakeDirectory{}, sub)

	_, err := svc.Checkout(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected guard error for missing mode")
	}
	if sub.callCount() != 0 {
		t.Fatal("expected no submission")
	}
}

func TestCheckoutPickupSuccess(t *testing.T) {
	carts := &fakeCarts{snap: filledSnapshot()}
	orderID := uuid.New()
	sub := &fakeSubmitter{orderID: orderID}
	svc := newTestService(t, carts, &fakeSessions{session: sessionWithMode(enums.ModePickup, nil)}, &fakeDirectory{}, sub)

	result, err := svc.Checkout(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if result.OrderID != orderID {
		t.Fatalf("expected order %s, got %s", orderID, result.OrderID)
	}
	if result.AddressID != nil {
		t.Fatal("pickup checkout must not carry an address")
	}
	if carts.clearCount() != 1 {
		t.Fatalf("expected cart cleared once, got %d", carts.clearCount())
	}

	event := <-svc.Events()
	if event.OrderID == nil || *event.OrderID != orderID {
		t.Fatalf("expected success event with order id, got %+v", event)
	}
}

func TestCheckoutReconciliationPriority(t *testing.T) {
	deleted := uuid.New()
	b := uuid.New()
	c := uuid.New()

	carts := &fakeCarts{snap: filledSnapshot()}
	sessions := &fakeSessions{session: sessionWithMode(enums.ModeDelivery, &deleted)}
	dir := &fakeDirectory{
		list:      []models.Address{{ID: b}, {ID: c}},
		defaultID: &b,
	}
	sub := &fakeSubmitter{orderID: uuid.New()}
	svc := newTestService(t, carts, sessions, dir, sub)

	result, err := svc.Checkout(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if result.AddressID == nil || *result.AddressID != b {
		t.Fatalf("expected resolved address %s, got %v", b, result.AddressID)
	}

	// the session was resynced to the submitted address
	if len(sessions.starts) != 1 || sessions.starts[0].addressID == nil || *sessions.starts[0].addressID != b {
		t.Fatalf("expected session resync to %s, got %+v", b, sessions.starts)
	}
	if sub.calls[0].addressID == nil || *sub.calls[0].addressID != b {
		t.Fatalf("expected submission with %s, got %+v", b, sub.calls[0])
	}
}

func TestCheckoutSessionAddressStillValidSkipsResync(t *testing.T) {
	a := uuid.New()
	carts := &fakeCarts{snap: filledSnapshot()}
	sessions := &fakeSessions{session: sessionWithMode(enums.ModeDelivery, &a)}
	dir := &fakeDirectory{list: []models.Address{{ID: a}}}
	sub := &fakeSubmitter{orderID: uuid.New()}
	svc := newTestService(t, carts, sessions, dir, sub)

	result, err := svc.Checkout(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if result.AddressID == nil || *result.AddressID != a {
		t.Fatalf("expected session address %s, got %v", a, result.AddressID)
	}
	if len(sessions.starts) != 0 {
		t.Fatalf("expected no session resync, got %+v", sessions.starts)
	}
}

func TestCheckoutFallsBackToFirstAddress(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	missingDefault := uuid.New()

	carts := &fakeCarts{snap: filledSnapshot()}
	sessions := &fakeSessions{session: sessionWithMode(enums.ModeDelivery, nil)}
	dir := &fakeDirectory{
		list:      []models.Address{{ID: first}, {ID: second}},
		defaultID: &missingDefault,
	}
	sub := &fakeSubmitter{orderID: uuid.New()}
	svc := newTestService(t, carts, sessions, dir, sub)

	result, err := svc.Checkout(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if result.AddressID == nil || *result.AddressID != first {
		t.Fatalf("expected first address %s, got %v", first, result.AddressID)
	}
}

func TestCheckoutNoValidAddress(t *testing.T) {
	carts := &fakeCarts{snap: filledSnapshot()}
	sessions := &fakeSessions{session: sessionWithMode(enums.ModeDelivery, nil)}
	sub := &fakeSubmitter{orderID: uuid.New()}
	svc := newTestService(t, carts, sessions, &fakeDirectory{}, sub)

	_, err := svc.Checkout(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected reconciliation error")
	}
	if sub.callCount() != 0 {
		t.Fatal("expected no submission without an address")
	}
	if carts.clearCount() != 0 {
		t.Fatal("failed checkout must not clear the cart")
	}
}

func TestCheckoutMapsBackendRejections(t *testing.T) {
	carts := &fakeCarts{snap: filledSnapshot()}
	sub := &fakeSubmitter{err: pkgerrors.New(pkgerrors.CodeForbidden, "rls denied insert on orders table")}
	svc := newTestService(t, carts, &fakeSessions{session: sessionWithMode(enums.ModePickup, nil)}, &fakeDirectory{}, sub)

	_, err := svc.Checkout(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected submit error")
	}
	if !strings.Contains(err.Error(), "could not place order") {
		t.Fatalf("expected generic message, got %q", err.Error())
	}
	if strings.Contains(err.Error(), "rls") {
		t.Fatalf("backend detail leaked: %q", err.Error())
	}
	if carts.clearCount() != 0 {
		t.Fatal("failed checkout must not clear the cart")
	}
}

func TestCheckoutPassesThroughOtherErrors(t *testing.T) {
	carts := &fakeCarts{snap: filledSnapshot()}
	sub := &fakeSubmitter{err: pkgerrors.New(pkgerrors.CodeDependency, "order store timed out")}
	svc := newTestService(t, carts, &fakeSessions{session: sessionWithMode(enums.ModePickup, nil)}, &fakeDirectory{}, sub)

	_, err := svc.Checkout(context.Background(), uuid.New())
	if err == nil || !strings.Contains(err.Error(), "order store timed out") {
		t.Fatalf("expected verbatim message, got %v", err)
	}
}

func TestCheckoutAtMostOnce(t *testing.T) {
	carts := &fakeCarts{snap: filledSnapshot()}
	sub := &fakeSubmitter{orderID: uuid.New(), block: make(chan struct{})}
	svc := newTestService(t, carts, &fakeSessions{session: sessionWithMode(enums.ModePickup, nil)}, &fakeDirectory{}, sub)
	userID := uuid.New()

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Checkout(context.Background(), userID)
		firstDone <- err
	}()

	// wait for the first attempt to reach the blocked submitter
	for sub.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	_, second := svc.Checkout(context.Background(), userID)
	if second == nil {
		t.Fatal("expected second invocation to be dropped")
	}
	if coded := pkgerrors.As(second); coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", second)
	}

	close(sub.block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}

	if sub.callCount() != 1 {
		t.Fatalf("expected exactly one submission, got %d", sub.callCount())
	}

	event := <-svc.Events()
	if event.OrderID == nil {
		t.Fatalf("expected one success event, got %+v", event)
	}
	select {
	case extra := <-svc.Events():
		t.Fatalf("unexpected extra event: %+v", extra)
	default:
	}
}
