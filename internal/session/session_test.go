package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/limestore/limectl/internal/errs"
	"github.com/limestore/limectl/internal/model"
	"github.com/limestore/limectl/internal/storage"
)

// signedToken builds a real HS256 token; the service never verifies the
// signature, only the exp claim matters.
func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func TestLogin_PersistsAndExposesSession(t *testing.T) {
	t.Parallel()
	st := storage.NewMemStore()
	s := NewService(st, nil)
	defer s.Close()

	tok := signedToken(t, time.Now().Add(time.Hour))
	if err := s.Login(tok, model.Profile{Name: "Ada", Email: "ada@lime.test"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	got, ok := s.Token()
	if !ok || got != tok {
		t.Fatalf("Token after login: %q ok=%v", got, ok)
	}
	p, ok := s.Profile()
	if !ok || p.Email != "ada@lime.test" {
		t.Fatalf("Profile after login: %+v ok=%v", p, ok)
	}
	if _, err := st.Get(storage.KeyToken); err != nil {
		t.Fatalf("token not persisted: %v", err)
	}
	if _, err := st.Get(storage.KeyProfile); err != nil {
		t.Fatalf("profile not persisted: %v", err)
	}
}

func TestLogin_RejectsEmptyAndExpiredTokens(t *testing.T) {
	t.Parallel()
	s := NewService(storage.NewMemStore(), nil)
	defer s.Close()

	if err := s.Login("", model.Profile{}); err == nil {
		t.Fatalf("want validation error for empty token")
	}
	err := s.Login(signedToken(t, time.Now().Add(-time.Minute)), model.Profile{})
	if err == nil {
		t.Fatalf("want error for expired token")
	}
	if !errors.Is(err, errs.ErrSessionExpired) {
		t.Fatalf("want ErrSessionExpired, got %v", err)
	}
	if s.Authenticated() {
		t.Fatalf("must stay anonymous after rejected login")
	}
}

func TestRestore_DiscardsExpiredToken(t *testing.T) {
	t.Parallel()
	st := storage.NewMemStore()
	_ = st.Set(storage.KeyToken, []byte(signedToken(t, time.Now().Add(-time.Hour))))
	_ = st.Set(storage.KeyProfile, []byte(`{"name":"Ada"}`))

	s := NewService(st, nil)
	defer s.Close()
	if s.Authenticated() {
		t.Fatalf("expired persisted token must not restore a session")
	}
	if _, err := st.Get(storage.KeyToken); err == nil {
		t.Fatalf("expired token should be deleted from storage")
	}
	if _, err := st.Get(storage.KeyProfile); err == nil {
		t.Fatalf("profile should be deleted with the expired token")
	}
}

func TestRestore_ValidTokenRehydratesProfile(t *testing.T) {
	t.Parallel()
	st := storage.NewMemStore()
	_ = st.Set(storage.KeyToken, []byte(signedToken(t, time.Now().Add(time.Hour))))
	_ = st.Set(storage.KeyProfile, []byte(`{"name":"Ada","email":"ada@lime.test","role":"admin"}`))

	s := NewService(st, nil)
	defer s.Close()
	p, ok := s.Profile()
	if !ok || p.Name != "Ada" || !p.IsAdmin() {
		t.Fatalf("restore profile: %+v ok=%v", p, ok)
	}
}

func TestWatchdog_FiresAtExpiry(t *testing.T) {
	t.Parallel()
	st := storage.NewMemStore()
	s := NewService(st, nil)
	defer s.Close()

	fired := make(chan Reason, 1)
	s.Subscribe(func(r Reason) { fired <- r })

	if err := s.Login(signedToken(t, time.Now().Add(150*time.Millisecond)), model.Profile{}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	select {
	case r := <-fired:
		if r != ReasonExpired {
			t.Fatalf("reason=%q, want expired", r)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("watchdog did not fire")
	}
	if s.Authenticated() {
		t.Fatalf("session must be anonymous after expiry")
	}
	if _, err := st.Get(storage.KeyToken); err == nil {
		t.Fatalf("token must be cleared from storage on expiry")
	}
}

func TestRelogin_ReplacesSessionAndCancelsOldTimer(t *testing.T) {
	t.Parallel()
	s := NewService(storage.NewMemStore(), nil)
	defer s.Close()

	fired := make(chan Reason, 2)
	s.Subscribe(func(r Reason) { fired <- r })

	if err := s.Login(signedToken(t, time.Now().Add(100*time.Millisecond)), model.Profile{Name: "old"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := s.Login(signedToken(t, time.Now().Add(time.Hour)), model.Profile{Name: "new"}); err != nil {
		t.Fatalf("re-Login: %v", err)
	}

	select {
	case r := <-fired:
		t.Fatalf("old timer fired after re-login: %q", r)
	case <-time.After(500 * time.Millisecond):
	}
	p, _ := s.Profile()
	if p.Name != "new" {
		t.Fatalf("profile not replaced: %+v", p)
	}
}

func TestHandleAuthFailure(t *testing.T) {
	t.Parallel()
	st := storage.NewMemStore()
	s := NewService(st, nil)
	defer s.Close()

	// anonymous → nothing to tear down
	if s.HandleAuthFailure(401, "") {
		t.Fatalf("anonymous session must not report teardown")
	}

	login := func() {
		if err := s.Login(signedToken(t, time.Now().Add(time.Hour)), model.Profile{}); err != nil {
			t.Fatalf("Login: %v", err)
		}
	}

	login()
	if s.HandleAuthFailure(500, "boom") {
		t.Fatalf("500 must not tear the session down")
	}
	if !s.Authenticated() {
		t.Fatalf("session lost on non-auth failure")
	}

	if !s.HandleAuthFailure(401, "") {
		t.Fatalf("401 must tear the session down")
	}
	login()
	if !s.HandleAuthFailure(422, "") {
		t.Fatalf("422 must tear the session down")
	}
	login()
	if !s.HandleAuthFailure(400, "Your TOKEN HAS EXPIRED, please sign in again") {
		t.Fatalf("expired-token message must tear the session down (case-insensitive)")
	}
	if s.Authenticated() {
		t.Fatalf("session must be anonymous after rejection")
	}
}

func TestLogout_NotifiesSubscribers(t *testing.T) {
	t.Parallel()
	s := NewService(storage.NewMemStore(), nil)
	defer s.Close()

	fired := make(chan Reason, 1)
	s.Subscribe(func(r Reason) { fired <- r })

	if err := s.Login(signedToken(t, time.Now().Add(time.Hour)), model.Profile{}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	s.Logout()

	select {
	case r := <-fired:
		if r != ReasonLogout {
			t.Fatalf("reason=%q, want logout", r)
		}
	case <-time.After(time.Second):
		t.Fatalf("logout did not notify subscribers")
	}
	// double logout is a no-op
	s.Logout()
}

func TestTokenExpiry_MalformedToken(t *testing.T) {
	t.Parallel()
	if !tokenExpiry("not-a-jwt").IsZero() {
		t.Fatalf("malformed token should yield zero expiry")
	}
	if !tokenExpiry("").IsZero() {
		t.Fatalf("empty token should yield zero expiry")
	}
}
