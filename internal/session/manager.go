package session

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0lar1s/kolichka/pkg/client"
	"github.com/s0lar1s/kolichka/pkg/domain"
)

// AuthError is a failed login or registration. Message is the server-supplied
// reason when one exists, or a generic per-operation fallback.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// Manager orchestrates login and registration against the API and owns the
// Session exclusively: screens only ever read it. Logout never calls the
// remote service.
type Manager struct {
	api      *client.Client
	sessions *Store
	log      zerolog.Logger

	mu      sync.Mutex
	loading bool
	lastErr string
}

// NewManager creates the auth manager on top of an API client and the
// session store.
func NewManager(api *client.Client, sessions *Store, log zerolog.Logger) *Manager {
	return &Manager{api: api, sessions: sessions, log: log}
}

// IsAuthenticated is derived from the presence of a user; it is recomputed on
// every call and never cached.
func (m *Manager) IsAuthenticated() bool {
	return m.sessions.Current().Authenticated()
}

// User returns the logged-in user, or nil.
func (m *Manager) User() *domain.User {
	return m.sessions.Current().User
}

// Loading reports whether a login or register call is in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Err returns the message of the last failed auth call, or "".
func (m *Manager) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// ClearError clears the transient error without any network call.
func (m *Manager) ClearError() {
	m.mu.Lock()
	m.lastErr = ""
	m.mu.Unlock()
}

// Login authenticates and, on success, atomically replaces the persisted
// session with the returned user and token.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	return m.authenticate(ctx, "login", email, password, func(ctx context.Context) (*client.AuthResult, error) {
		return m.api.Login(ctx, email, password)
	}, "Login failed")
}

// Register creates an account; the contract is identical to Login.
func (m *Manager) Register(ctx context.Context, email, password, name string) error {
	return m.authenticate(ctx, "register", email, password, func(ctx context.Context) (*client.AuthResult, error) {
		return m.api.Register(ctx, email, password, name)
	}, "Registration failed")
}

func (m *Manager) authenticate(ctx context.Context, op, email, password string, call func(context.Context) (*client.AuthResult, error), fallback string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return m.fail(op, "email and password are required")
	}

	m.mu.Lock()
	m.lastErr = ""
	m.loading = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	res, err := call(ctx)
	if err != nil {
		return m.fail(op, client.Message(err, fallback))
	}
	if !res.OK || res.User == nil {
		msg := res.Error
		if msg == "" {
			msg = fallback
		}
		return m.fail(op, msg)
	}

	if err := m.sessions.Replace(domain.Session{AccessToken: res.AccessToken, User: res.User}); err != nil {
		m.log.Error().Err(err).Str("op", op).Msg("session persist failed")
		return m.fail(op, fallback)
	}
	m.log.Info().Str("op", op).Int64("user_id", res.User.ID).Msg("authenticated")
	return nil
}

func (m *Manager) fail(op, msg string) error {
	m.mu.Lock()
	m.lastErr = msg
	m.mu.Unlock()
	m.log.Warn().Str("op", op).Str("reason", msg).Msg("auth failed")
	return &AuthError{Message: msg}
}

// Logout clears the session wholesale and persists the clear. No remote call
// is made.
func (m *Manager) Logout() error {
	if err := m.sessions.Clear(); err != nil {
		return err
	}
	m.log.Info().Msg("logged out")
	return nil
}
