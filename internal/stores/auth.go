package stores

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"taskboard/internal/localstore"
	"taskboard/internal/service"
)

// Session holds the process-wide token. The transport implements it.
type Session interface {
	// Token returns the active token, or "".
	Token() string

	// SetToken activates and persists token; "" clears it.
	SetToken(ctx context.Context, token string) error
}

// AuthStore owns the signed-in user. The token itself lives in the
// Session, so a server-side session end is seen here immediately.
type AuthStore struct {
	*state

	api     service.Auth
	session Session
	kv      localstore.Store

	user *service.User
}

// NewAuthStore creates an auth store. Call Restore to pick up a
// persisted session.
func NewAuthStore(api service.Auth, session Session, kv localstore.Store, opts Options) *AuthStore {
	return &AuthStore{
		state:   newState(StoreAuth, opts),
		api:     api,
		session: session,
		kv:      kv,
	}
}

// IsAuthenticated reports whether a session token is active.
func (s *AuthStore) IsAuthenticated() bool {
	return s.session.Token() != ""
}

// User returns a copy of the signed-in user, or nil.
func (s *AuthStore) User() *service.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Login exchanges credentials for a token, activates it and loads the
// user. If loading the user fails the token stays active.
func (s *AuthStore) Login(ctx context.Context, username, password string) bool {
	s.begin()
	defer s.end()

	tok, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.fail("login", err, MsgLoginFailed)
		return false
	}

	if err := s.session.SetToken(ctx, tok.AccessToken); err != nil {
		s.logger.Warn("token not persisted, session lasts until exit", zap.Error(err))
	}
	s.publish(FieldToken)

	u, err := s.api.Me(ctx)
	if err != nil {
		s.fail("login", err, MsgLoginFailed)
		return false
	}
	s.setUser(ctx, &u)
	return true
}

// Register creates the account and then logs in with the same
// credentials. A failed registration does not attempt the login.
func (s *AuthStore) Register(ctx context.Context, in service.RegisterInput) bool {
	s.begin()
	defer s.end()

	if _, err := s.api.Register(ctx, in); err != nil {
		s.fail("register", err, MsgRegisterFailed)
		return false
	}
	return s.Login(ctx, in.Username, in.Password)
}

// Logout forgets the user and the token locally. The server is not told.
func (s *AuthStore) Logout(ctx context.Context) {
	if err := s.session.SetToken(ctx, ""); err != nil {
		s.logger.Warn("failed to remove persisted token", zap.Error(err))
	}
	s.setUser(ctx, nil)
	s.publish(FieldToken)
}

// EndSession forgets the user after the transport ended the session.
// The transport has already cleared the token and persisted records.
func (s *AuthStore) EndSession() {
	s.update(func() { s.user = nil }, FieldUser, FieldToken)
}

// Restore pairs a persisted token with its user. The persisted user record
// is used when present, otherwise the user is fetched. Without a token any
// stale user record is dropped. Restore reports whether a session is active.
func (s *AuthStore) Restore(ctx context.Context) bool {
	if !s.IsAuthenticated() {
		s.setUser(ctx, nil)
		return false
	}

	if u, ok := s.loadUser(ctx); ok {
		s.update(func() { s.user = &u }, FieldUser)
		return true
	}

	s.begin()
	defer s.end()
	u, err := s.api.Me(ctx)
	if err != nil {
		s.fail("restore", err, MsgLoginFailed)
		return s.IsAuthenticated()
	}
	s.setUser(ctx, &u)
	return true
}

func (s *AuthStore) loadUser(ctx context.Context) (service.User, bool) {
	raw, err := s.kv.Get(ctx, localstore.KeyUser)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			s.logger.Warn("failed to read persisted user", zap.Error(err))
		}
		return service.User{}, false
	}
	var u service.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.logger.Warn("ignoring malformed persisted user", zap.Error(err))
		return service.User{}, false
	}
	return u, true
}

// setUser replaces the user in memory and in the local store.
func (s *AuthStore) setUser(ctx context.Context, u *service.User) {
	s.update(func() { s.user = u }, FieldUser)

	if u == nil {
		if err := s.kv.Delete(ctx, localstore.KeyUser); err != nil {
			s.logger.Warn("failed to remove persisted user", zap.Error(err))
		}
		return
	}
	data, err := json.Marshal(u)
	if err != nil {
		s.logger.Warn("failed to encode user", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, localstore.KeyUser, string(data)); err != nil {
		s.logger.Warn("failed to persist user", zap.Error(err))
	}
}

// TokenClaims are the unverified claims of the session token.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// TokenClaims decodes the session token without verifying it. The server
// remains the judge of validity; the claims are for display only. ok is
// false without a token or when the token is not a JWT.
func (s *AuthStore) TokenClaims() (claims TokenClaims, ok bool) {
	token := s.session.Token()
	if token == "" {
		return TokenClaims{}, false
	}
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		s.logger.Debug("token is not a readable JWT", zap.Error(err))
		return TokenClaims{}, false
	}
	claims.Subject = rc.Subject
	if rc.ExpiresAt != nil {
		claims.ExpiresAt = rc.ExpiresAt.Time
	}
	return claims, true
}
