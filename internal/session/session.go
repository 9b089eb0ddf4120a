package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tiendago/storefront/internal/api"
	"github.com/tiendago/storefront/internal/models"
	"github.com/tiendago/storefront/internal/storage"
)

// Landing locations the store routes the viewer to on state transitions.
const (
	RouteHome   = "/"
	RouteAdmin  = "/admin"
	RouteVendor = "/vendor"
	RouteLogin  = "/login"
)

const genericLoginError = "Email o contraseña incorrectos."
const genericRegisterError = "El email ya está registrado o hubo un error."

// Navigator receives route changes. The CLI implements it; tests use a fake.
type Navigator interface {
	Navigate(route string)
}

// Store holds the client's belief about the authenticated identity. User and
// token are set and cleared together; one without the other is logged out.
type Store struct {
	mu     sync.Mutex
	kv     *storage.Store
	client *api.Client
	nav    Navigator
	log    *slog.Logger

	autoLogin bool

	user   *models.User
	token  string
	errMsg string
	subs   []func(loggedIn bool)
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithRegisterAutoLogin controls whether a successful registration starts a
// session from the returned token or routes to the login page instead.
func WithRegisterAutoLogin(v bool) Option {
	return func(s *Store) { s.autoLogin = v }
}

func New(kv *storage.Store, client *api.Client, nav Navigator, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		client:    client,
		nav:       nav,
		log:       slog.Default(),
		autoLogin: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	var token string
	var user models.User
	hasToken := kv.Read(storage.KeyToken, &token)
	hasUser := kv.Read(storage.KeyUser, &user)
	if hasToken {
		s.token = token
	}
	if hasUser && hasToken {
		s.user = &user
	}
	return s
}

func (s *Store) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.token != ""
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) User() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Err returns the last user-facing error, empty when none.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Subscribe registers a callback invoked after every state transition with
// the new logged-in flag.
func (s *Store) Subscribe(fn func(loggedIn bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		// Never echo server detail for credentials.
		s.setError(genericLoginError)
		s.log.Warn("login failed", "error", err)
		return err
	}

	s.establish(resp.AccessToken, resp.User)

	switch resp.User.RoleTag() {
	case models.RoleAdmin:
		s.nav.Navigate(RouteAdmin)
	case models.RoleVendor:
		s.nav.Navigate(RouteVendor)
	default:
		s.nav.Navigate(RouteHome)
	}
	return nil
}

func (s *Store) Register(ctx context.Context, nombre, email, password string) error {
	resp, err := s.client.Register(ctx, api.RegisterRequest{
		Nombre:   nombre,
		Email:    email,
		Password: password,
	})
	if err != nil {
		msg := api.Detail(err)
		if msg == "" {
			msg = genericRegisterError
		}
		s.setError(msg)
		s.log.Warn("registration failed", "error", err)
		return err
	}

	if s.autoLogin && resp.AccessToken != "" {
		s.establish(resp.AccessToken, resp.User)
		s.nav.Navigate(RouteHome)
		return nil
	}

	s.nav.Navigate(RouteLogin)
	return nil
}

// Logout clears the session unconditionally. It never fails: persistence
// errors are logged and the in-memory state is dropped regardless.
func (s *Store) Logout() {
	s.clear()
	s.nav.Navigate(RouteLogin)
}

// Reconcile fetches the current user when a token is present without a
// cached user. An invalid or expired token forces a logout instead of being
// retried forever.
func (s *Store) Reconcile(ctx context.Context) {
	s.mu.Lock()
	needsUser := s.token != "" && s.user == nil
	s.mu.Unlock()
	if !needsUser {
		return
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		s.log.Warn("current user fetch failed, dropping session", "error", err)
		s.clear()
		return
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	if err := s.kv.Write(storage.KeyUser, user); err != nil {
		s.log.Error("persist user failed", "error", err)
	}
	s.notify()
}

func (s *Store) establish(token string, user models.User) {
	s.mu.Lock()
	s.token = token
	s.user = &user
	s.errMsg = ""
	s.mu.Unlock()

	if err := s.kv.Write(storage.KeyToken, token); err != nil {
		s.log.Error("persist token failed", "error", err)
	}
	if err := s.kv.Write(storage.KeyUser, user); err != nil {
		s.log.Error("persist user failed", "error", err)
	}
	s.notify()
}

func (s *Store) clear() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.errMsg = ""
	s.mu.Unlock()

	if err := s.kv.Write(storage.KeyToken, nil); err != nil {
		s.log.Error("drop token failed", "error", err)
	}
	if err := s.kv.Write(storage.KeyUser, nil); err != nil {
		s.log.Error("drop user failed", "error", err)
	}
	s.notify()
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	loggedIn := s.user != nil && s.token != ""
	subs := make([]func(bool), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(loggedIn)
	}
}
