package client

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"pgpathfinder/internal/models"

	"go.uber.org/zap"
)

type AuthEventType string

const (
	// EventInitialSession is emitted once by Init, with or without a user
	EventInitialSession AuthEventType = "INITIAL_SESSION"
	EventSignedIn       AuthEventType = "SIGNED_IN"
	EventSignedOut      AuthEventType = "SIGNED_OUT"
	EventTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
	EventProfileUpdated AuthEventType = "PROFILE_UPDATED"
)

// AuthEvent reports a session state change. Profile is nil when signed out.
type AuthEvent struct {
	Type    AuthEventType
	Profile *Profile
}

type Listener func(AuthEvent)

const taskQueueSize = 16

// Session tracks the signed-in user. It is safe for concurrent use.
//
// Listeners run synchronously on the goroutine that changed the state,
// after the change is visible. Work that must not run inside a listener,
// such as the profile reload after sign-in, goes through the session's task
// queue and runs once the listeners have returned.
type Session struct {
	client *Client
	store  TokenStore
	log    *zap.Logger

	mu      sync.RWMutex
	token   *TokenResponse
	profile *Profile
	// epoch changes on every sign-in and sign-out, so queued work can tell
	// whether it still belongs to the current user
	epoch     uint64
	listeners map[int]Listener
	nextID    int

	refreshMu sync.Mutex

	ctx       context.Context
	cancel    context.CancelFunc
	tasks     chan func(context.Context)
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewSession starts the session's task worker. Call Init to restore a
// persisted token and Close when done.
func NewSession(c *Client, store TokenStore, log *zap.Logger) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		client:    c,
		store:     store,
		log:       log.Named("session"),
		listeners: make(map[int]Listener),
		ctx:       ctx,
		cancel:    cancel,
		tasks:     make(chan func(context.Context), taskQueueSize),
		done:      make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run()
	return s
}

func (s *Session) run() {
	defer s.wg.Done()
	for {
		select {
		case task := <-s.tasks:
			task(s.ctx)
		case <-s.done:
			return
		}
	}
}

func (s *Session) enqueue(task func(context.Context)) {
	select {
	case s.tasks <- task:
	case <-s.done:
	}
}

func (s *Session) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Close stops the task worker. Pending tasks are dropped. The persisted
// token is kept so the next process can restore it.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		close(s.done)
	})
	s.wg.Wait()
}

// OnAuthStateChange registers fn and returns a function that removes it
func (s *Session) OnAuthStateChange(fn Listener) (unsubscribe func()) {
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

func (s *Session) notify(eventType AuthEventType) {
	s.mu.RLock()
	event := AuthEvent{Type: eventType, Profile: copyProfile(s.profile)}
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(event)
	}
}

func copyProfile(p *Profile) *Profile {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// Init restores a persisted token. A token the server no longer accepts,
// even after a refresh, is discarded and the session starts signed out.
func (s *Session) Init(ctx context.Context) error {
	if s.closed() {
		return ErrSessionClosed
	}

	token, err := s.store.Load()
	if err != nil {
		return err
	}
	if token == nil || token.AccessToken == "" {
		s.notify(EventInitialSession)
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	profile, err := s.fetchProfile(ctx)
	switch {
	case err == nil:
		s.mu.Lock()
		s.profile = profile
		s.mu.Unlock()
	case IsUnauthorized(err) || errors.Is(err, ErrSignInRequired):
		s.log.Info("Persisted session expired")
		s.reset()
	default:
		return err
	}

	s.notify(EventInitialSession)
	return nil
}

// SignIn replaces any current session. The returned profile comes from the
// sign-in response; a fresh copy is reloaded on the task queue and
// announced with EventProfileUpdated.
func (s *Session) SignIn(ctx context.Context, email, password string) (*Profile, error) {
	if s.closed() {
		return nil, ErrSessionClosed
	}

	session, err := s.client.signIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	epoch := s.setSession(session, true)
	s.notify(EventSignedIn)
	s.enqueue(func(ctx context.Context) { s.reloadProfile(ctx, epoch) })
	return copyProfile(session.Profile), nil
}

// setSession installs a token pair. A sign-in also starts a new epoch,
// which it returns.
func (s *Session) setSession(session *models.Session, signIn bool) uint64 {
	token := session.Token
	s.mu.Lock()
	s.token = &token
	if signIn {
		s.epoch++
		s.profile = session.Profile
	} else if session.Profile != nil {
		s.profile = session.Profile
	}
	epoch := s.epoch
	s.mu.Unlock()

	if err := s.store.Save(&token); err != nil {
		s.log.Warn("Failed to persist session token", zap.Error(err))
	}
	return epoch
}

// reloadProfile fetches the profile for the sign-in that queued it. The
// result is dropped if the user signed out or another sign-in happened in
// the meantime.
func (s *Session) reloadProfile(ctx context.Context, epoch uint64) {
	if s.currentEpoch() != epoch {
		return
	}

	profile, err := s.fetchProfile(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Warn("Profile reload failed", zap.Error(err))
		}
		return
	}

	s.mu.Lock()
	if s.token == nil || s.epoch != epoch {
		s.mu.Unlock()
		return
	}
	s.profile = profile
	s.mu.Unlock()
	s.notify(EventProfileUpdated)
}

func (s *Session) currentEpoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

func (s *Session) fetchProfile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := s.authed(ctx, request{method: http.MethodGet, path: "/v1/me"}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SignOut always clears local state and the persisted token. Server-side
// revocation errors are returned but do not keep the session alive.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	s.token = nil
	s.profile = nil
	s.epoch++
	s.mu.Unlock()

	if token == nil {
		return nil
	}

	remoteErr := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/v1/auth/signout",
		token:  token.AccessToken,
		body:   models.RefreshTokenRequest{RefreshToken: token.RefreshToken},
	}, nil)
	if IsUnauthorized(remoteErr) {
		// already expired or revoked
		remoteErr = nil
	}

	storeErr := s.store.Clear()
	s.notify(EventSignedOut)
	return errors.Join(remoteErr, storeErr)
}

// Refresh rotates the token pair
func (s *Session) Refresh(ctx context.Context) error {
	return s.refreshIfCurrent(ctx, s.AccessToken())
}

// refreshIfCurrent refreshes unless another caller already replaced the
// access token the caller saw rejected
func (s *Session) refreshIfCurrent(ctx context.Context, seen string) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.mu.RLock()
	var current, refreshToken string
	if s.token != nil {
		current, refreshToken = s.token.AccessToken, s.token.RefreshToken
	}
	s.mu.RUnlock()

	if refreshToken == "" {
		return ErrSignInRequired
	}
	if current != seen {
		return nil
	}

	session, err := s.client.refresh(ctx, refreshToken)
	if err != nil {
		if IsUnauthorized(err) {
			s.reset()
			s.notify(EventSignedOut)
		}
		return err
	}

	s.setSession(session, false)
	s.notify(EventTokenRefreshed)
	return nil
}

func (s *Session) reset() {
	s.mu.Lock()
	s.token = nil
	s.profile = nil
	s.epoch++
	s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		s.log.Warn("Failed to clear persisted token", zap.Error(err))
	}
}

// authed sends r with the access token. A 401 triggers one refresh and a
// single retry.
func (s *Session) authed(ctx context.Context, r request, out interface{}) error {
	token := s.AccessToken()
	if token == "" {
		return ErrSignInRequired
	}
	r.token = token

	err := s.client.do(ctx, r, out)
	if !IsUnauthorized(err) {
		return err
	}

	if refreshErr := s.refreshIfCurrent(ctx, token); refreshErr != nil {
		return err
	}
	r.token = s.AccessToken()
	if r.token == "" {
		return ErrSignInRequired
	}
	return s.client.do(ctx, r, out)
}

// UpdateProfile sends a profile patch. The server applies only the
// self-service fields.
func (s *Session) UpdateProfile(ctx context.Context, patch map[string]interface{}) (*Profile, error) {
	var profile Profile
	if err := s.authed(ctx, request{method: http.MethodPatch, path: "/v1/me", body: patch}, &profile); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.profile = &profile
	s.mu.Unlock()
	s.notify(EventProfileUpdated)
	return copyProfile(&profile), nil
}

func (s *Session) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return ""
	}
	return s.token.AccessToken
}

// Profile returns a copy of the cached profile, or nil
func (s *Session) Profile() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyProfile(s.profile)
}

// Role is the cached profile role, or "" when signed out
func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return ""
	}
	return s.profile.Role
}

// Action names a UI capability
type Action string

const (
	ActionViewContact    Action = "view_contact"
	ActionManageListings Action = "manage_listings"
	ActionModerate       Action = "moderate"
	ActionManageUsers    Action = "manage_users"
	ActionViewAuditLogs  Action = "view_audit_logs"
)

// Can reports whether the UI should offer action. It is a presentation hint:
// the server decides every request on its own.
func (s *Session) Can(action Action) bool {
	if !s.IsAuthenticated() {
		return false
	}
	role := s.Role()
	switch action {
	case ActionViewContact:
		return true
	case ActionManageListings:
		return role == models.RolePGOwner
	case ActionModerate, ActionManageUsers, ActionViewAuditLogs:
		return role == models.RoleAdmin
	}
	return false
}
