// Package session keeps the client's authentication state consistent with
// token expiry without a server round trip.
package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/limestore/limectl/internal/errs"
	"github.com/limestore/limectl/internal/model"
	"github.com/limestore/limectl/internal/storage"
)

// Reason tells subscribers why the session ended.
type Reason string

const (
	// ReasonExpired means the expiry watchdog fired.
	ReasonExpired Reason = "expired"
	// ReasonRejected means the API rejected the stored credentials.
	ReasonRejected Reason = "rejected"
	// ReasonLogout means the user logged out explicitly.
	ReasonLogout Reason = "logout"
)

// Service owns the bearer token and profile, persists them across runs, and
// schedules a one-shot teardown at the token's expiry instant. The only
// transitions are anonymous → Login → authenticated → (watchdog | rejected
// credentials | Logout) → anonymous; re-login while authenticated simply
// replaces the session.
type Service struct {
	mu    sync.Mutex
	log   *zap.Logger
	store storage.Store
	now   func() time.Time

	token     string
	profile   model.Profile
	expiresAt time.Time
	timer     *time.Timer
	subs      []func(Reason)
}

// NewService constructs the session service and restores a persisted
// session. A restored token that is already expired is discarded together
// with the stored profile.
func NewService(store storage.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{log: log, store: store, now: time.Now}
	s.restore()
	return s
}

// Login installs a new session, persists it, and arms the expiry watchdog.
// A token whose exp claim is already in the past is rejected.
func (s *Service) Login(token string, profile model.Profile) error {
	if token == "" {
		return fmt.Errorf("session: empty token: %w", errs.ErrValidation)
	}
	exp := tokenExpiry(token)
	if !exp.IsZero() && !exp.After(s.now()) {
		return fmt.Errorf("session: token already expired: %w", errs.ErrSessionExpired)
	}

	s.mu.Lock()
	s.token = token
	s.profile = profile
	s.expiresAt = exp
	if err := s.store.Set(storage.KeyToken, []byte(token)); err != nil {
		s.log.Warn("session: persist token failed", zap.Error(err))
	}
	if b, err := json.Marshal(profile); err == nil {
		if err := s.store.Set(storage.KeyProfile, b); err != nil {
			s.log.Warn("session: persist profile failed", zap.Error(err))
		}
	}
	s.scheduleLocked()
	s.mu.Unlock()
	return nil
}

// Logout tears the session down and cancels the watchdog.
func (s *Service) Logout() {
	s.teardown(ReasonLogout)
}

// Token returns the bearer token, if a session is held.
func (s *Service) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// Profile returns the authenticated profile, if a session is held.
func (s *Service) Profile() (model.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile, s.token != ""
}

// ExpiresAt returns the token expiry instant; zero when the token carries
// no exp claim.
func (s *Service) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// Authenticated reports whether a session is currently held.
func (s *Service) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// UpdateProfile replaces the cached profile (after an account edit) and
// persists it. No-op when anonymous.
func (s *Service) UpdateProfile(profile model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return
	}
	s.profile = profile
	if b, err := json.Marshal(profile); err == nil {
		if err := s.store.Set(storage.KeyProfile, b); err != nil {
			s.log.Warn("session: persist profile failed", zap.Error(err))
		}
	}
}

// Subscribe registers a callback invoked after the session ends for any
// reason. Callbacks run outside the service lock.
func (s *Service) Subscribe(fn func(Reason)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// HandleAuthFailure is the HTTP layer's entry point for credential
// rejection. It tears the session down when a token is held and the failure
// is authentication-class: status 401 or 422, or a message containing
// "token has expired" (case-insensitive). Reports whether teardown happened.
func (s *Service) HandleAuthFailure(status int, message string) bool {
	if !s.Authenticated() {
		return false
	}
	if status != 401 && status != 422 &&
		!strings.Contains(strings.ToLower(message), "token has expired") {
		return false
	}
	s.teardown(ReasonRejected)
	return true
}

// Close cancels the watchdog without ending the session; the persisted
// token still expires on its own schedule next run.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// scheduleLocked (re)arms the one-shot expiry timer. Caller must hold s.mu.
func (s *Service) scheduleLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.expiresAt.IsZero() {
		return
	}
	d := s.expiresAt.Sub(s.now())
	s.timer = time.AfterFunc(d, func() { s.teardown(ReasonExpired) })
}

// teardown clears state and storage, then notifies subscribers.
func (s *Service) teardown(reason Reason) {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.profile = model.Profile{}
	s.expiresAt = time.Time{}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if err := s.store.Delete(storage.KeyToken); err != nil {
		s.log.Warn("session: clear token failed", zap.Error(err))
	}
	if err := s.store.Delete(storage.KeyProfile); err != nil {
		s.log.Warn("session: clear profile failed", zap.Error(err))
	}
	subs := append([]func(Reason){}, s.subs...)
	s.mu.Unlock()

	s.log.Debug("session ended", zap.String("reason", string(reason)))
	for _, fn := range subs {
		fn(reason)
	}
}

// restore loads a persisted token and profile, discarding them when the
// token is already past its exp claim.
func (s *Service) restore() {
	b, err := s.store.Get(storage.KeyToken)
	if err != nil || len(b) == 0 {
		return
	}
	token := strings.TrimSpace(string(b))
	exp := tokenExpiry(token)
	if !exp.IsZero() && !exp.After(s.now()) {
		_ = s.store.Delete(storage.KeyToken)
		_ = s.store.Delete(storage.KeyProfile)
		return
	}

	var profile model.Profile
	if pb, err := s.store.Get(storage.KeyProfile); err == nil {
		if err := json.Unmarshal(pb, &profile); err != nil {
			profile = model.Profile{}
		}
	}

	s.mu.Lock()
	s.token = token
	s.profile = profile
	s.expiresAt = exp
	s.scheduleLocked()
	s.mu.Unlock()
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client never holds the signing key. Zero when the claim is absent or the
// token is malformed.
func tokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	_, _ = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) { return nil, nil },
		jwt.WithoutClaimsValidation(),
	)
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
