package cart_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiendago/storefront/internal/api"
	"github.com/tiendago/storefront/internal/cart"
	"github.com/tiendago/storefront/internal/models"
	"github.com/tiendago/storefront/internal/notify"
	"github.com/tiendago/storefront/internal/session"
	"github.com/tiendago/storefront/internal/storage"
)

type nopNav struct{}

func (nopNav) Navigate(string) {}

// cartServer is an in-memory stand-in for the platform's cart resource.
type cartServer struct {
	mu       sync.Mutex
	lines    []models.CartLine
	nextID   uint
	requests map[string]int
	failAll  bool
}

func (s *cartServer) count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[key]
}

func (s *cartServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-cart",
			"token_type":   "bearer",
			"user":         models.User{ID: 1, Email: "ana@example.com", Role: models.RoleCustomer},
		})
	})

	mux.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.requests[r.Method+" /cart"]++

		if s.failAll {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"detail": "boom"})
			return
		}

		switch r.Method {
		case http.MethodGet:
			lines := s.lines
			if lines == nil {
				lines = []models.CartLine{}
			}
			json.NewEncoder(w).Encode(lines)
		case http.MethodPost:
			var req struct {
				ProductID uint `json:"producto_id"`
				Cantidad  int  `json:"cantidad"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			s.nextID++
			s.lines = append(s.lines, models.CartLine{
				ID: s.nextID, ProductID: req.ProductID, Nombre: "Producto", Precio: 10, Cantidad: req.Cantidad,
			})
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(s.lines[len(s.lines)-1])
		case http.MethodDelete:
			s.lines = nil
			w.WriteHeader(http.StatusNoContent)
		}
	})

	mux.HandleFunc("/cart/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.requests[r.Method+" /cart/:id"]++

		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/cart/"))
		switch r.Method {
		case http.MethodPut:
			var req struct {
				Cantidad int `json:"cantidad"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			for i := range s.lines {
				if s.lines[i].ID == uint(id) {
					s.lines[i].Cantidad = req.Cantidad
					json.NewEncoder(w).Encode(s.lines[i])
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "línea no encontrada"})
		case http.MethodDelete:
			kept := s.lines[:0]
			for _, l := range s.lines {
				if l.ID != uint(id) {
					kept = append(kept, l)
				}
			}
			s.lines = kept
			w.WriteHeader(http.StatusNoContent)
		}
	})

	return mux
}

type cartEnv struct {
	server *cartServer
	sess   *session.Store
	cart   *cart.Store
	toasts *notify.Center
	seen   *[]notify.Toast
}

func newCartEnv(t *testing.T) *cartEnv {
	t.Helper()

	cs := &cartServer{requests: make(map[string]int)}
	srv := httptest.NewServer(cs.handler())
	t.Cleanup(srv.Close)

	kv, err := storage.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	env := &cartEnv{server: cs, seen: &[]notify.Toast{}}
	client := api.New(srv.URL, func() string {
		if env.sess == nil {
			return ""
		}
		return env.sess.Token()
	})
	env.sess = session.New(kv, client, nopNav{})
	env.toasts = notify.NewCenter(
		notify.WithAuthCheck(env.sess.LoggedIn),
		notify.WithSink(func(tst notify.Toast) { *env.seen = append(*env.seen, tst) }),
	)
	env.cart = cart.New(client, env.sess, env.toasts)
	return env
}

func (e *cartEnv) login(t *testing.T) {
	t.Helper()
	require.NoError(t, e.sess.Login(context.Background(), "ana@example.com", "secret"))
}

func lastToast(t *testing.T, seen []notify.Toast) notify.Toast {
	t.Helper()
	require.NotEmpty(t, seen)
	return seen[len(seen)-1]
}

func TestAddWhileLoggedOutIsNoop(t *testing.T) {
	env := newCartEnv(t)

	env.cart.Add(context.Background(), models.Product{ID: 1, Nombre: "Taza"}, 2)

	require.Zero(t, env.server.count("POST /cart"))
	tst := lastToast(t, *env.seen)
	require.Equal(t, notify.Warning, tst.Severity)
	require.Equal(t, "Debes iniciar sesión para agregar productos al carrito", tst.Text)
}

func TestLoginTriggersFetch(t *testing.T) {
	env := newCartEnv(t)
	env.server.lines = []models.CartLine{{ID: 1, ProductID: 5, Nombre: "Taza", Precio: 9.5, Cantidad: 2}}

	env.login(t)

	require.Equal(t, 1, env.server.count("GET /cart"))
	lines := env.cart.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, uint(5), lines[0].ProductID)
	require.InDelta(t, 19.0, env.cart.Total(), 0.001)
}

func TestAddRefetchesAfterMutation(t *testing.T) {
	env := newCartEnv(t)
	env.login(t)

	env.cart.Add(context.Background(), models.Product{ID: 7, Nombre: "Lámpara"}, 3)

	require.Equal(t, 1, env.server.count("POST /cart"))
	require.Equal(t, 2, env.server.count("GET /cart"), "one fetch at login, one after add")
	require.Len(t, env.cart.Lines(), 1)
	require.Equal(t, 3, env.cart.Lines()[0].Cantidad)

	tst := lastToast(t, *env.seen)
	require.Equal(t, notify.Success, tst.Severity)
	require.Equal(t, "Lámpara agregado al carrito", tst.Text)
}

func TestAddClampsQuantityToOne(t *testing.T) {
	env := newCartEnv(t)
	env.login(t)

	env.cart.Add(context.Background(), models.Product{ID: 7, Nombre: "Silla"}, 0)

	require.Len(t, env.cart.Lines(), 1)
	require.Equal(t, 1, env.cart.Lines()[0].Cantidad)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	env := newCartEnv(t)
	env.server.lines = []models.CartLine{{ID: 4, ProductID: 1, Cantidad: 2}}
	env.server.nextID = 4
	env.login(t)

	env.cart.UpdateQuantity(context.Background(), 4, 0)

	require.Zero(t, env.server.count("PUT /cart/:id"))
	require.Equal(t, 1, env.server.count("DELETE /cart/:id"))
	require.Empty(t, env.cart.Lines())
}

func TestUpdateQuantityPersists(t *testing.T) {
	env := newCartEnv(t)
	env.server.lines = []models.CartLine{{ID: 4, ProductID: 1, Precio: 5, Cantidad: 2}}
	env.server.nextID = 4
	env.login(t)

	env.cart.UpdateQuantity(context.Background(), 4, 6)

	require.Equal(t, 1, env.server.count("PUT /cart/:id"))
	require.Len(t, env.cart.Lines(), 1)
	require.Equal(t, 6, env.cart.Lines()[0].Cantidad)
}

func TestFetchFailureYieldsEmptyCart(t *testing.T) {
	env := newCartEnv(t)
	env.server.lines = []models.CartLine{{ID: 1, ProductID: 1, Cantidad: 1}}
	env.login(t)
	require.Len(t, env.cart.Lines(), 1)

	env.server.mu.Lock()
	env.server.failAll = true
	env.server.mu.Unlock()

	env.cart.Fetch(context.Background())

	require.Empty(t, env.cart.Lines())
	tst := lastToast(t, *env.seen)
	require.Equal(t, notify.Error, tst.Severity)
	require.Equal(t, "Error al cargar el carrito", tst.Text)
}

func TestClearSkipsRefetch(t *testing.T) {
	env := newCartEnv(t)
	env.server.lines = []models.CartLine{{ID: 1, ProductID: 1, Cantidad: 1}}
	env.login(t)
	fetches := env.server.count("GET /cart")

	env.cart.Clear(context.Background())

	require.Equal(t, 1, env.server.count("DELETE /cart"))
	require.Equal(t, fetches, env.server.count("GET /cart"), "clear knows the post-state")
	require.Empty(t, env.cart.Lines())

	tst := lastToast(t, *env.seen)
	require.Equal(t, "Carrito vaciado", tst.Text)
}

func TestLogoutClearsLinesLocally(t *testing.T) {
	env := newCartEnv(t)
	env.server.lines = []models.CartLine{{ID: 1, ProductID: 1, Cantidad: 1}}
	env.login(t)
	require.Len(t, env.cart.Lines(), 1)

	deletes := env.server.count("DELETE /cart")
	env.sess.Logout()

	require.Empty(t, env.cart.Lines())
	require.Equal(t, deletes, env.server.count("DELETE /cart"), "no server mutation on logout")
}

func TestAddFailureShowsServerDetail(t *testing.T) {
	env := newCartEnv(t)
	env.login(t)

	env.server.mu.Lock()
	env.server.failAll = true
	env.server.mu.Unlock()

	env.cart.Add(context.Background(), models.Product{ID: 9, Nombre: "Mesa"}, 1)

	tst := lastToast(t, *env.seen)
	require.Equal(t, notify.Error, tst.Severity)
	require.Equal(t, "boom", tst.Text)
}
