// Package session tracks who is using the planner right now. The current
// identity decides which persistence backend every operation uses: remote
// when someone is signed in, the device-local store otherwise.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Identity is the signed-in user.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Change describes an identity transition. Either side may be nil (anonymous).
type Change struct {
	Previous *Identity
	Current  *Identity
}

// SignedIn reports whether the change ends with a user signed in who was not
// signed in before.
func (c Change) SignedIn() bool {
	return c.Current != nil && (c.Previous == nil || c.Previous.UserID != c.Current.UserID)
}

// AuthProvider is the external authentication collaborator.
type AuthProvider interface {
	// Restore returns the identity of a previously persisted sign-in, or nil.
	Restore(ctx context.Context) (*Identity, error)
	// SignIn verifies credentials, persists them and returns the identity.
	SignIn(ctx context.Context, token string) (Identity, error)
	// SignOut forgets the persisted sign-in.
	SignOut(ctx context.Context) error
}

// Session holds the current identity and notifies listeners when it changes.
// It starts in a loading state that it leaves exactly once, in Init.
type Session struct {
	provider AuthProvider
	logger   *slog.Logger

	mu        sync.RWMutex
	identity  *Identity
	listeners map[int]func(Change)
	nextID    int

	initOnce sync.Once
	ready    chan struct{}
}

// New constructs a Session in the loading state.
func New(provider AuthProvider, logger *slog.Logger) *Session {
	return &Session{
		provider:  provider,
		logger:    logger,
		listeners: make(map[int]func(Change)),
		ready:     make(chan struct{}),
	}
}

// Init asks the provider for a persisted sign-in and leaves the loading
// state. A provider failure is logged and leaves the session anonymous.
// Only the first call has any effect.
func (s *Session) Init(ctx context.Context) {
	s.initOnce.Do(func() {
		id, err := s.provider.Restore(ctx)
		if err != nil {
			s.logger.Warn("could not restore session, continuing anonymously", "error", err)
			id = nil
		}
		s.mu.Lock()
		s.identity = id
		s.mu.Unlock()
		close(s.ready)

		if id != nil {
			s.logger.Info("session restored", "user_id", id.UserID)
			s.notify(Change{Current: copyIdentity(id)})
		}
	})
}

// Ready is closed once the session has left the loading state.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// Loading reports whether Init has not completed yet.
func (s *Session) Loading() bool {
	select {
	case <-s.ready:
		return false
	default:
		return true
	}
}

// Identity returns a copy of the current identity, or nil when anonymous.
func (s *Session) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyIdentity(s.identity)
}

// IsAnonymous reports whether no user is signed in.
func (s *Session) IsAnonymous() bool {
	return s.Identity() == nil
}

// SignIn verifies token with the provider and makes its user current.
func (s *Session) SignIn(ctx context.Context, token string) (Identity, error) {
	id, err := s.provider.SignIn(ctx, token)
	if err != nil {
		return Identity{}, fmt.Errorf("session.Session.SignIn: %w", err)
	}
	s.swap(&id)
	return id, nil
}

// SignOut forgets the current user. Signing out while anonymous is a no-op.
func (s *Session) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		return fmt.Errorf("session.Session.SignOut: %w", err)
	}
	s.swap(nil)
	return nil
}

// OnChange registers fn to run after every identity change. Listeners run
// synchronously on the goroutine that caused the change. The returned
// function unregisters fn.
func (s *Session) OnChange(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) swap(next *Identity) {
	s.mu.Lock()
	prev := s.identity
	s.identity = copyIdentity(next)
	s.mu.Unlock()

	if prev == nil && next == nil {
		return
	}
	if prev != nil && next != nil && *prev == *next {
		return
	}
	s.notify(Change{Previous: copyIdentity(prev), Current: copyIdentity(next)})
}

func (s *Session) notify(c Change) {
	s.mu.RLock()
	fns := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}

func copyIdentity(id *Identity) *Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
