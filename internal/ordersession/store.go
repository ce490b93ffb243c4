package ordersession

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/pkg/enums"
)

// Store serializes writes to the durable session storage and mirrors the
// last known value in memory for low-latency reads. Once a write returns,
// every subsequent read observes it or a later write.
type Store struct {
	mu      sync.Mutex // one writer in flight at a time
	storage Storage

	mirror sync.Map // uuid.UUID -> Session

	watchMu  sync.Mutex
	watchers map[uuid.UUID][]chan Session
}

// NewStore builds a session store backed by the provided storage.
func NewStore(storage Storage) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("session storage required")
	}
	return &Store{
		storage:  storage,
		watchers: make(map[uuid.UUID][]chan Session),
	}, nil
}

// Get returns the user's current session. The first read for a user warms
// the in-memory mirror from storage; later reads never touch storage.
func (s *Store) Get(ctx context.Context, userID uuid.UUID) (Session, error) {
	if cached, ok := s.mirror.Load(userID); ok {
		return cached.(Session), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.mirror.Load(userID); ok {
		return cached.(Session), nil
	}

	session, _, err := s.storage.Load(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	s.mirror.Store(userID, session)
	return session, nil
}

// StartOrder sets the mode and optional address and clears browsing-only.
// The triple is persisted before it is published, so observers never see a
// half-updated value.
func (s *Store) StartOrder(ctx context.Context, userID uuid.UUID, mode enums.FulfillmentMode, addressID *uuid.UUID) (Session, error) {
	session := Session{Mode: &mode, AddressID: addressID}
	return session, s.write(ctx, userID, session)
}

// SetBrowsingOnly clears mode and address and marks the session as
// browsing-only, used when the user defers choosing a fulfillment path.
func (s *Store) SetBrowsingOnly(ctx context.Context, userID uuid.UUID) (Session, error) {
	session := Session{BrowsingOnly: true}
	return session, s.write(ctx, userID, session)
}

// Clear resets the session to the empty triple.
func (s *Store) Clear(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, userID); err != nil {
		return err
	}
	s.publish(userID, Session{})
	return nil
}

// Watch returns a channel receiving the session after every completed
// write. Buffered, latest-wins.
func (s *Store) Watch(userID uuid.UUID) <-chan Session {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	w := make(chan Session, 1)
	s.watchers[userID] = append(s.watchers[userID], w)
	return w
}

func (s *Store) write(ctx context.Context, userID uuid.UUID, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Save(ctx, userID, session); err != nil {
		return err
	}
	s.publish(userID, session)
	return nil
}

// publish stores the mirror value and notifies watchers. A failed write
// never reaches this point, so the mirror only ever holds persisted state.
func (s *Store) publish(userID uuid.UUID, session Session) {
	s.mirror.Store(userID, session)

	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for _, w := range s.watchers[userID] {
		select {
		case <-w:
		default:
		}
		select {
		case w <- session:
		default:
		}
	}
}
