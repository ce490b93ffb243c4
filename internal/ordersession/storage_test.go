package ordersession

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/pkg/enums"
	pkgredis "github.com/ordena-app/ordena-backend/pkg/redis"
)

// fakeKV mimics the Redis surface RedisStorage relies on.
type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return nil
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	if !ok {
		return "", pkgredis.Nil
	}
	return value, nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeKV) OrderSessionKey(userID string) string {
	return "ordena:order_session:" + userID
}

func TestRedisStorageRoundTrip(t *testing.T) {
	kv := newFakeKV()
	storage, err := NewRedisStorage(kv, time.Hour)
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	userID := uuid.New()
	addressID := uuid.New()
	mode := enums.ModeDelivery

	if err := storage.Save(context.Background(), userID, Session{Mode: &mode, AddressID: &addressID}); err != nil {
		t.Fatalf("save: %v", err)
	}

	session, ok, err := storage.Load(context.Background(), userID)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if session.Mode == nil || *session.Mode != enums.ModeDelivery {
		t.Fatalf("expected delivery, got %+v", session)
	}
	if session.AddressID == nil || *session.AddressID != addressID {
		t.Fatalf("expected address %s, got %+v", addressID, session)
	}
}

func TestRedisStorageMissingKeyIsNotAnError(t *testing.T) {
	storage, _ := NewRedisStorage(newFakeKV(), 0)

	session, ok, err := storage.Load(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok || !session.IsEmpty() {
		t.Fatalf("expected empty miss, got ok=%v session=%+v", ok, session)
	}
}

func TestRedisStorageDelete(t *testing.T) {
	kv := newFakeKV()
	storage, _ := NewRedisStorage(kv, 0)
	userID := uuid.New()
	mode := enums.ModePickup

	storage.Save(context.Background(), userID, Session{Mode: &mode})
	if err := storage.Delete(context.Background(), userID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, ok, _ := storage.Load(context.Background(), userID)
	if ok {
		t.Fatal("expected key removed")
	}
}
