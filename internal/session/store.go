// Package session holds the authenticated session of the portal: the bearer
// token, the tenant it is scoped to and the signed-in user's profile.
//
// All state lives in a Store value passed explicitly to the commands that
// need it. Readers take a Snapshot; the only writers are the login, logout
// and profile operations below. The token is the one piece of state that is
// persisted between runs, through a TokenStore.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"fbrportal/internal/api"
	"fbrportal/internal/logger"
	"fbrportal/pkg/models"
)

// Status is the authentication status of a session.
type Status string

const (
	StatusIdle          Status = "idle"
	StatusLoading       Status = "loading"
	StatusOTPPending    Status = "otp_pending"
	StatusAuthenticated Status = "authenticated"
)

// Fallback messages when the backend gives no usable one.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgInvalidCode        = "Invalid code"
	msgProfileLoad        = "Failed to load profile"
)

var (
	// ErrSessionExpired is returned when a persisted or fresh token cannot
	// establish a session.
	ErrSessionExpired = errors.New("session expired")

	// ErrNoPendingOTP is returned by LoginVerify outside of an OTP challenge.
	ErrNoPendingOTP = errors.New("no one-time passcode pending")
)

// AuthError is a failed login step. Message is what the user sees.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// State is a point-in-time copy of the session.
type State struct {
	Token        string
	TenantID     models.ID
	User         *models.User
	Status       Status
	PendingEmail string
	Error        string
	ExpiresAt    time.Time
}

// Authenticated reports whether the session carries a usable token.
func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.Token != ""
}

// Backend is the part of the API the session talks to.
type Backend interface {
	Login(ctx context.Context, creds api.Credentials) (*models.LoginResponse, error)
	LoginVerify(ctx context.Context, body api.OTPVerification) (*models.TokenResponse, error)
	Me(ctx context.Context) (*models.User, error)
}

// Store is the session of one portal client.
type Store struct {
	backend Backend
	tokens  TokenStore
	now     func() time.Time
	log     zerolog.Logger

	mu    sync.Mutex
	state State
	timer *time.Timer
	gen   uint64
	subs  map[int]func(State)
	next  int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to evaluate token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an idle session. A nil TokenStore keeps the token in
// memory only.
func NewStore(backend Backend, tokens TokenStore, opts ...Option) *Store {
	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}
	s := &Store{
		backend: backend,
		tokens:  tokens,
		now:     time.Now,
		log:     logger.WithComponent("session"),
		state:   State{Status: StatusIdle},
		subs:    make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// OnChange registers fn to be called with the new state after every change.
// The returned function unregisters it.
func (s *Store) OnChange(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// update applies fn under the lock, then notifies subscribers outside it.
func (s *Store) update(fn func(*State)) State {
	s.mu.Lock()
	fn(&s.state)
	st := s.snapshotLocked()
	subs := make([]func(State), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(st)
	}
	return st
}

// LoginPassword submits credentials. When the backend asks for a one-time
// passcode the session moves to StatusOTPPending and keeps email for
// LoginVerify; otherwise the returned token establishes the session.
func (s *Store) LoginPassword(ctx context.Context, email, password string) (State, error) {
	s.update(func(st *State) {
		st.Status = StatusLoading
		st.Error = ""
		st.PendingEmail = ""
	})

	res, err := s.backend.Login(ctx, api.Credentials{Email: email, Password: password})
	if err == nil && res != nil && !res.OTPRequired && res.Token != "" {
		err = s.establish(ctx, res.Token)
	}
	if err != nil {
		return s.fail(err, msgInvalidCredentials)
	}
	if res != nil && res.OTPRequired {
		return s.update(func(st *State) {
			st.Status = StatusOTPPending
			st.PendingEmail = email
		}), nil
	}
	if res == nil || res.Token == "" {
		return s.fail(ErrSessionExpired, msgInvalidCredentials)
	}
	return s.Snapshot(), nil
}

// ResumeOTP reopens the challenge of an earlier LoginPassword for email,
// typically from a new process. An empty email or a signed-in session leaves
// the state unchanged.
func (s *Store) ResumeOTP(email string) State {
	if email == "" {
		return s.Snapshot()
	}
	return s.update(func(st *State) {
		if st.Status == StatusAuthenticated {
			return
		}
		st.Status = StatusOTPPending
		st.PendingEmail = email
		st.Error = ""
	})
}

// LoginVerify completes an OTP challenge started by LoginPassword.
func (s *Store) LoginVerify(ctx context.Context, code string) (State, error) {
	var email string
	s.update(func(st *State) {
		email = st.PendingEmail
		if email != "" {
			st.Status = StatusLoading
			st.Error = ""
		}
	})
	if email == "" {
		return s.Snapshot(), ErrNoPendingOTP
	}

	res, err := s.backend.LoginVerify(ctx, api.OTPVerification{Email: email, Code: code})
	if err == nil {
		if res == nil || res.Token == "" {
			err = ErrSessionExpired
		} else {
			err = s.establish(ctx, res.Token)
		}
	}
	if err != nil {
		_, authErr := s.fail(err, msgInvalidCode)
		// a wrong code leaves the challenge open
		return s.update(func(st *State) {
			st.Status = StatusOTPPending
			st.PendingEmail = email
		}), authErr
	}
	return s.update(func(st *State) { st.PendingEmail = "" }), nil
}

// Bootstrap restores the persisted session. Any failure clears it and
// returns ErrSessionExpired; having no saved token is not a failure.
func (s *Store) Bootstrap(ctx context.Context) (State, error) {
	token, err := s.tokens.Load()
	if err != nil {
		s.log.Warn().Err(err).Msg("Could not read saved session")
	}
	if token == "" {
		return s.Snapshot(), nil
	}
	if err := s.establish(ctx, token); err != nil {
		s.log.Debug().Err(err).Msg("Saved session rejected")
		s.Logout()
		return s.Snapshot(), fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	return s.Snapshot(), nil
}

// establish decodes token, loads the profile with it and makes it the
// active session.
func (s *Store) establish(ctx context.Context, token string) error {
	claims, err := DecodeClaims(token)
	if err != nil {
		return err
	}
	if !claims.ExpiresAt.IsZero() && !claims.ExpiresAt.After(s.now()) {
		s.clear()
		return ErrSessionExpired
	}

	s.mu.Lock()
	s.state.Token = token
	s.mu.Unlock()

	me, err := s.backend.Me(ctx)
	if err != nil {
		s.clear()
		return err
	}
	if err := s.tokens.Save(token); err != nil {
		s.log.Warn().Err(err).Msg("Could not persist session")
	}

	s.update(func(st *State) {
		st.Token = token
		st.TenantID = claims.TenantID
		st.User = me
		st.Status = StatusAuthenticated
		st.ExpiresAt = claims.ExpiresAt
		st.Error = ""
	})
	s.scheduleExpiry(claims.ExpiresAt)
	return nil
}

func (s *Store) fail(err error, fallback string) (State, error) {
	msg := fallback
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		msg = api.ExtractMessage(err)
	}
	st := s.update(func(st *State) {
		st.Status = StatusIdle
		st.Error = msg
	})
	return st, &AuthError{Message: msg, Err: err}
}

func (s *Store) scheduleExpiry(exp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
	if exp.IsZero() {
		return
	}
	gen := s.gen
	s.timer = time.AfterFunc(exp.Sub(s.now()), func() { s.expire(gen) })
}

func (s *Store) expire(gen uint64) {
	s.mu.Lock()
	current := gen == s.gen
	s.mu.Unlock()
	if current {
		s.log.Info().Msg("Session token expired")
		s.Logout()
	}
}

// stopTimerLocked cancels the pending expiry and invalidates any callback
// already running.
func (s *Store) stopTimerLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Store) clear() {
	s.mu.Lock()
	s.stopTimerLocked()
	s.mu.Unlock()
	if err := s.tokens.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("Could not remove saved session")
	}
	s.update(func(st *State) {
		st.Token = ""
		st.TenantID = ""
		st.User = nil
		st.ExpiresAt = time.Time{}
		if st.Status == StatusAuthenticated {
			st.Status = StatusIdle
		}
	})
}

// Logout ends the session and forgets the persisted token.
func (s *Store) Logout() {
	s.clear()
	s.update(func(st *State) { *st = State{Status: StatusIdle} })
}

// ForceLogout is the hook run when the backend revokes the session.
func (s *Store) ForceLogout() {
	s.log.Warn().Msg("Session revoked by backend")
	s.Logout()
}

// SetTenant scopes the session to another tenant.
func (s *Store) SetTenant(id models.ID) {
	s.update(func(st *State) { st.TenantID = id })
}

// RefreshUser reloads the profile.
func (s *Store) RefreshUser(ctx context.Context) (*models.User, error) {
	me, err := s.backend.Me(ctx)
	if err != nil {
		return nil, &AuthError{Message: msgProfileLoad, Err: err}
	}
	s.update(func(st *State) { st.User = me })
	return me, nil
}

// MergeUser overlays the non-empty fields of u onto the current profile.
func (s *Store) MergeUser(u *models.User) {
	if u == nil {
		return
	}
	s.update(func(st *State) {
		if st.User == nil {
			cp := *u
			st.User = &cp
			return
		}
		merged := *st.User
		if !u.ID.IsZero() {
			merged.ID = u.ID
		}
		if u.FullName != "" {
			merged.FullName = u.FullName
		}
		if u.Email != "" {
			merged.Email = u.Email
		}
		if u.UserType != "" {
			merged.UserType = u.UserType
		}
		if u.Role != "" {
			merged.Role = u.Role
		}
		st.User = &merged
	})
}
