package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/internal/ordersession"
	"github.com/ordena-app/ordena-backend/pkg/enums"
)

type memorySessionStorage struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]ordersession.Session
	failSave bool
}

func newMemorySessionStorage() *memorySessionStorage {
	return &memorySessionStorage{sessions: make(map[uuid.UUID]ordersession.Session)}
}

func (s *memorySessionStorage) Load(ctx context.Context, userID uuid.UUID) (ordersession.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	return session, ok, nil
}

func (s *memorySessionStorage) Save(ctx context.Context, userID uuid.UUID, session ordersession.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return errors.New("storage down")
	}
	s.sessions[userID] = session
	return nil
}

func (s *memorySessionStorage) Delete(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

func newSessionStore(t *testing.T, storage ordersession.Storage) *ordersession.Store {
	t.Helper()
	store, err := ordersession.NewStore(storage)
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}
	return store
}

func decodeSession(t *testing.T, resp *httptest.ResponseRecorder) ordersession.Session {
	t.Helper()
	var envelope struct {
		Data ordersession.Session `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestSessionGetDefaultsEmpty(t *testing.T) {
	store := newSessionStore(t, newMemorySessionStorage())
	handler := SessionGet(store, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/session", "", uuid.New()))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if session := decodeSession(t, resp); !session.IsEmpty() {
		t.Fatalf("expected empty session, got %+v", session)
	}
}

func TestSessionStartOrderPersists(t *testing.T) {
	storage := newMemorySessionStorage()
	store := newSessionStore(t, storage)
	handler := SessionStartOrder(store, nil)

	userID := uuid.New()
	addressID := uuid.New()
	body := fmt.Sprintf(`{"mode": "delivery", "address_id": "%s"}`, addressID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPut, "/api/v1/session", body, userID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	session := decodeSession(t, resp)
	if !session.HasMode() || *session.Mode != enums.ModeDelivery {
		t.Fatalf("expected delivery mode, got %+v", session)
	}
	if session.AddressID == nil || *session.AddressID != addressID {
		t.Fatalf("expected address %s, got %+v", addressID, session.AddressID)
	}

	stored, ok, _ := storage.Load(context.Background(), userID)
	if !ok || stored.Mode == nil || *stored.Mode != enums.ModeDelivery {
		t.Fatalf("session not persisted: %+v ok=%v", stored, ok)
	}
}

func TestSessionStartOrderRejectsBadMode(t *testing.T) {
	handler := SessionStartOrder(newSessionStore(t, newMemorySessionStorage()), nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPut, "/api/v1/session", `{"mode": "teleport"}`, uuid.New()))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSessionStartOrderStorageFailure(t *testing.T) {
	storage := newMemorySessionStorage()
	storage.failSave = true
	handler := SessionStartOrder(newSessionStore(t, storage), nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPut, "/api/v1/session", `{"mode": "pickup"}`, uuid.New()))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestSessionBrowsingOnly(t *testing.T) {
	store := newSessionStore(t, newMemorySessionStorage())
	handler := SessionBrowsingOnly(store, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/session/browsing-only", "", uuid.New()))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	session := decodeSession(t, resp)
	if !session.BrowsingOnly || session.HasMode() {
		t.Fatalf("expected browsing-only session, got %+v", session)
	}
}

func TestSessionClear(t *testing.T) {
	storage := newMemorySessionStorage()
	store := newSessionStore(t, storage)
	userID := uuid.New()
	mode := enums.ModePickup
	if _, err := store.StartOrder(context.Background(), userID, mode, nil); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	handler := SessionClear(store, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodDelete, "/api/v1/session", "", userID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if _, ok, _ := storage.Load(context.Background(), userID); ok {
		t.Fatal("expected stored session to be deleted")
	}
}
