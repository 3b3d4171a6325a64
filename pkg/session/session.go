package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// User is the cached snapshot of the signed-in account.
type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Provider is what the HTTP client needs from a session.
type Provider interface {
	Token() string
	Invalidate(ctx context.Context) error
}

// Session is the explicit auth context handed to every service call.
type Session struct {
	store *Store
	hub   *Hub

	mu    sync.RWMutex
	token string
	user  *User

	stopWatch func()
}

// Open loads the persisted token and user. store may be nil for a memory-only session.
func Open(ctx context.Context, store *Store, hub *Hub) (*Session, error) {
	if hub == nil {
		hub = NewHub(nil)
	}
	s := &Session{store: store, hub: hub}
	if store != nil {
		if err := s.load(ctx); err != nil {
			return nil, err
		}
	}
	s.watch()
	return s, nil
}

func (s *Session) load(ctx context.Context) error {
	token, _, err := s.store.Get(ctx, keyToken)
	if err != nil {
		return err
	}
	s.token = token

	raw, ok, err := s.store.Get(ctx, keyUser)
	if err != nil {
		return err
	}
	if ok {
		var u User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return fmt.Errorf("failed to decode cached user: %w", err)
		}
		s.user = &u
	}
	return nil
}

// watch drops the in-memory token and user when another process signs out.
// The store is left alone; the signing-out process already cleared its own.
func (s *Session) watch() {
	events, cancel := s.hub.Subscribe()
	s.stopWatch = cancel
	go func() {
		for ev := range events {
			if ev.Type == EventInvalidated && ev.Origin != s.hub.ID() {
				s.mu.Lock()
				s.token = ""
				s.user = nil
				s.mu.Unlock()
			}
		}
	}()
}

// Close stops listening for remote sign-outs. It does not close the hub.
func (s *Session) Close() {
	if s.stopWatch != nil {
		s.stopWatch()
	}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the cached user, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) SetToken(ctx context.Context, token string) error {
	if s.store != nil {
		if err := s.store.Set(ctx, keyToken, token); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.hub.Publish(ctx, EventSignedIn)
	return nil
}

func (s *Session) SetUser(ctx context.Context, u User) error {
	if s.store != nil {
		raw, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("failed to encode user: %w", err)
		}
		if err := s.store.Set(ctx, keyUser, string(raw)); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	return nil
}

// Clear removes the token and user and broadcasts EventInvalidated.
func (s *Session) Clear(ctx context.Context) error {
	if s.store != nil {
		if err := s.store.Delete(ctx, keyToken, keyUser); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	s.hub.Publish(ctx, EventInvalidated)
	return nil
}

// Invalidate is called by the HTTP client after a 401.
func (s *Session) Invalidate(ctx context.Context) error {
	return s.Clear(ctx)
}

// Subscribe forwards to the session's hub.
func (s *Session) Subscribe() (<-chan Event, func()) {
	return s.hub.Subscribe()
}

// Valid reports whether a token is present and not expired at now.
// A token without an exp claim, or one that is not a JWT, counts as valid;
// the backend remains the authority.
func (s *Session) Valid(now time.Time) bool {
	token := s.Token()
	if token == "" {
		return false
	}
	exp, ok, err := TokenExpiry(token)
	if err != nil || !ok {
		return true
	}
	return now.Before(exp)
}
