package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/osheen/internal/client/client"
	"github.com/dmitrijs2005/osheen/internal/client/models"
	"github.com/dmitrijs2005/osheen/internal/client/storage"
	"github.com/dmitrijs2005/osheen/internal/logging"
)

const DefaultReconcileTimeout = 10 * time.Second

// State is a consumer's copy of the session. It is detached from the
// Manager; changing it has no effect.
type State struct {
	User            *models.User
	Token           string
	IsAuthenticated bool

	// Loading is true from New until the first Initialize completes.
	Loading     bool
	Initialized bool

	// Checking is true while a CheckAuth request is in flight.
	Checking  bool
	LastCheck *Result
}

type Manager struct {
	store            storage.Repository
	authority        client.Authority
	log              logging.Logger
	now              func() time.Time
	reconcileTimeout time.Duration

	// mu guards the fields below and serializes store writes with them.
	mu          sync.RWMutex
	user        *models.User
	token       string
	loading     bool
	initialized bool
	inflight    int
	lastCheck   *Result
	// gen changes on every login, logout and eviction.
	gen uint64
	// profileGen changes on every UpdateUser.
	profileGen uint64

	subs subscribers
}

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithReconcileTimeout bounds the backend request made by CheckAuth.
func WithReconcileTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.reconcileTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func New(store storage.Repository, authority client.Authority, opts ...Option) *Manager {
	m := &Manager{
		store:            store,
		authority:        authority,
		log:              logging.Nop(),
		now:              time.Now,
		reconcileTimeout: DefaultReconcileTimeout,
		loading:          true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With("component", "session")
	return m
}

func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := State{
		User:            m.user.Clone(),
		Token:           m.token,
		IsAuthenticated: m.authenticatedLocked(),
		Loading:         m.loading,
		Initialized:     m.initialized,
		Checking:        m.inflight > 0,
	}
	if m.lastCheck != nil {
		r := *m.lastCheck
		s.LastCheck = &r
	}
	return s
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authenticatedLocked()
}

func (m *Manager) authenticatedLocked() bool {
	return m.token != "" && m.user.Valid()
}

// Subscribe registers fn for Login, Logout and eviction events. Handlers
// run synchronously on the goroutine that changed the session, after the
// change is visible through Snapshot. The returned func unregisters fn and
// may be called more than once.
func (m *Manager) Subscribe(fn Handler) func() {
	if fn == nil {
		return func() {}
	}
	return m.subs.add(fn)
}

// Initialize loads the session from the store and publishes it without
// contacting the backend. A stored profile that does not decode or lacks
// its identity is removed from the store; the token is left in place for
// CheckAuth. Initialize never fails: problems are logged and the session
// falls back to logged out.
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.user, m.token = nil, ""

	token, hasToken, err := m.store.Get(ctx, storage.KeyToken)
	if err != nil {
		m.log.Warn(ctx, "failed to read token", "op", "initialize", "err", err)
		hasToken = false
	}
	hasToken = hasToken && token != ""

	raw, hasUser, err := m.store.Get(ctx, storage.KeyUser)
	if err != nil {
		m.log.Warn(ctx, "failed to read profile", "op", "initialize", "err", err)
		hasUser = false
	}

	var user *models.User
	if hasUser {
		user, err = models.ParseUser([]byte(raw))
		if err != nil {
			m.log.Warn(ctx, "discarding stored profile", "op", "initialize", "err", err)
			m.removeUserLocked(ctx)
		} else if !hasToken {
			m.log.Warn(ctx, "discarding profile without token", "op", "initialize")
			m.removeUserLocked(ctx)
			user = nil
		}
	}

	if hasToken && user != nil {
		m.user, m.token = user, token
		m.authority.SetToken(token)
		m.log.Info(ctx, "session restored", "user_id", user.ID)
	} else {
		m.authority.ClearToken()
	}

	m.loading = false
	m.initialized = true
}

func (m *Manager) removeUserLocked(ctx context.Context) {
	if err := m.store.Delete(ctx, storage.KeyUser); err != nil {
		m.log.Warn(ctx, "failed to remove profile", "err", err)
	}
}

// CheckAuth reconciles the stored credential with the backend. It is safe
// to call at any time and from several goroutines. A result that arrives
// after a Login, Logout or eviction is reported Inconclusive with
// ErrSuperseded and does not touch the session. A profile fetched before an
// UpdateUser confirms the session but does not replace the updated profile.
func (m *Manager) CheckAuth(ctx context.Context) Result {
	m.mu.Lock()

	token, ok, err := m.store.Get(ctx, storage.KeyToken)
	if err != nil {
		res := m.recordLocked(OutcomeInconclusive, fmt.Errorf("read token: %w", err))
		m.mu.Unlock()
		m.log.Warn(ctx, "reconciliation skipped", "op", "check", "outcome", res.Outcome, "err", err)
		return res
	}

	if !ok || token == "" {
		m.clearLocked()
		res := m.recordLocked(OutcomeNoSession, nil)
		m.mu.Unlock()
		m.log.Debug(ctx, "no stored session", "op", "check")
		return res
	}

	if tokenExpired(token, m.now()) {
		res := m.evictLocked(ctx, ErrTokenExpired)
		m.mu.Unlock()
		m.log.Info(ctx, "session evicted", "op", "check", "outcome", res.Outcome, "err", res.Err)
		m.subs.notify(Event{Kind: EventEvicted})
		return res
	}

	gen, profileGen := m.gen, m.profileGen
	m.inflight++
	m.authority.SetToken(token)
	m.mu.Unlock()

	reqCtx, cancel := context.WithTimeout(ctx, m.reconcileTimeout)
	user, err := m.authority.CurrentProfile(reqCtx)
	cancel()

	m.mu.Lock()
	m.inflight--

	if m.gen != gen {
		res := m.recordLocked(OutcomeInconclusive, ErrSuperseded)
		m.mu.Unlock()
		m.log.Debug(ctx, "discarding stale reconciliation", "op", "check")
		return res
	}

	if err == nil {
		if verr := user.Validate(); verr != nil {
			err = fmt.Errorf("%w: %w", client.ErrMalformedResponse, verr)
		}
	}

	switch {
	case err == nil && m.profileGen != profileGen:
		// the credential holds; the local profile is newer than the fetched one
		res := m.recordLocked(OutcomeConfirmed, nil)
		m.mu.Unlock()
		m.log.Debug(ctx, "keeping newer local profile", "op", "check", "user_id", user.ID)
		return res

	case err == nil:
		if perr := m.persistLocked(ctx, token, user); perr != nil {
			res := m.recordLocked(OutcomeInconclusive, perr)
			m.mu.Unlock()
			m.log.Warn(ctx, "failed to persist refreshed profile", "op", "check", "err", perr)
			return res
		}
		m.user, m.token = user.Clone(), token
		res := m.recordLocked(OutcomeConfirmed, nil)
		m.mu.Unlock()
		m.log.Info(ctx, "session confirmed", "op", "check", "user_id", user.ID)
		return res

	case client.IsAuthFailure(err):
		res := m.evictLocked(ctx, err)
		m.mu.Unlock()
		m.log.Info(ctx, "session evicted", "op", "check", "outcome", res.Outcome, "err", err)
		m.subs.notify(Event{Kind: EventEvicted})
		return res

	default:
		res := m.recordLocked(OutcomeInconclusive, err)
		m.mu.Unlock()
		m.log.Warn(ctx, "could not confirm session", "op", "check", "outcome", res.Outcome, "err", err)
		return res
	}
}

func (m *Manager) recordLocked(o Outcome, err error) Result {
	res := Result{Outcome: o, Err: err, At: m.now()}
	m.lastCheck = &res
	return res
}

// evictLocked drops the session everywhere. A store failure is logged; the
// in-memory session is cleared regardless.
func (m *Manager) evictLocked(ctx context.Context, cause error) Result {
	if err := m.store.DeleteMany(ctx, storage.KeyToken, storage.KeyUser); err != nil {
		m.log.Warn(ctx, "failed to clear stored session", "op", "evict", "err", err)
	}
	m.clearLocked()
	return m.recordLocked(OutcomeRejected, cause)
}

func (m *Manager) clearLocked() {
	m.user, m.token = nil, ""
	m.authority.ClearToken()
	m.gen++
}

func (m *Manager) persistLocked(ctx context.Context, token string, user *models.User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := m.store.SetMany(ctx, map[string]string{
		storage.KeyToken: token,
		storage.KeyUser:  string(b),
	}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Login stores token and user as the current session and notifies
// subscribers. An empty token or a profile without id and email is refused
// and leaves the session as it was.
func (m *Manager) Login(ctx context.Context, token string, user *models.User) error {
	if token == "" {
		return ErrInvalidToken
	}
	if err := user.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	if err := m.persistLocked(ctx, token, user); err != nil {
		m.mu.Unlock()
		return err
	}
	m.user, m.token = user.Clone(), token
	m.authority.SetToken(token)
	m.gen++
	m.mu.Unlock()

	m.log.Info(ctx, "logged in", "op", "login", "user_id", user.ID)
	m.subs.notify(Event{Kind: EventLoggedIn})
	return nil
}

// Logout clears the session and notifies subscribers, also when nobody was
// logged in. If the store cannot be cleared the error is returned, but the
// in-memory session is dropped and the event is still sent.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	storeErr := m.store.DeleteMany(ctx, storage.KeyToken, storage.KeyUser)
	m.clearLocked()
	m.mu.Unlock()

	if storeErr != nil {
		m.log.Warn(ctx, "failed to clear stored session", "op", "logout", "err", storeErr)
		storeErr = fmt.Errorf("clear session: %w", storeErr)
	} else {
		m.log.Info(ctx, "logged out", "op", "logout")
	}

	m.subs.notify(Event{Kind: EventLoggedOut})
	return storeErr
}

// UpdateUser replaces the profile of the logged-in user. The token is not
// touched and no event is sent. The new profile must be valid and carry the
// same id as the current one.
func (m *Manager) UpdateUser(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.authenticatedLocked() {
		return ErrNotAuthenticated
	}
	if user.ID != m.user.ID {
		return fmt.Errorf("%w: id %q does not match session", ErrInvalidUser, user.ID)
	}

	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := m.store.Set(ctx, storage.KeyUser, string(b)); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}
	m.user = user.Clone()
	m.profileGen++

	m.log.Debug(ctx, "profile updated", "op", "update", "user_id", user.ID)
	return nil
}

