package testutil

import (
	"context"
	"sync"

	"taskboard/internal/localstore"
)

// FakeSession holds a token the way the transport does, persisting it to
// Store. It never talks to a server.
type FakeSession struct {
	mu    sync.RWMutex
	token string

	Store localstore.Store

	// SetTokenErr, when set, is returned by SetToken after the token has
	// been activated in memory.
	SetTokenErr error
}

// NewFakeSession creates a session backed by an in-memory store.
func NewFakeSession() *FakeSession {
	return &FakeSession{Store: localstore.NewMemoryStore()}
}

// Token returns the active token.
func (s *FakeSession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken activates and persists token; "" clears it.
func (s *FakeSession) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if s.SetTokenErr != nil {
		return s.SetTokenErr
	}
	if token == "" {
		return s.Store.Delete(ctx, localstore.KeyToken)
	}
	return s.Store.Set(ctx, localstore.KeyToken, token)
}

// Expire mimics the transport ending the session after a 401.
func (s *FakeSession) Expire(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	_ = s.Store.Delete(ctx, localstore.KeyToken)
	_ = s.Store.Delete(ctx, localstore.KeyUser)
}
