package cart

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tiendago/storefront/internal/api"
	"github.com/tiendago/storefront/internal/models"
	"github.com/tiendago/storefront/internal/notify"
	"github.com/tiendago/storefront/internal/session"
)

// Store mirrors the server-side cart resource of the authenticated user.
// Every mutation re-fetches the full cart afterwards rather than trusting
// the mutation response to reflect final server state.
type Store struct {
	mu      sync.Mutex
	client  *api.Client
	session *session.Store
	toasts  *notify.Center
	log     *slog.Logger

	lines []models.CartLine
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

func New(client *api.Client, sess *session.Store, toasts *notify.Center, opts ...Option) *Store {
	s := &Store{
		client:  client,
		session: sess,
		toasts:  toasts,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	sess.Subscribe(func(loggedIn bool) {
		if loggedIn {
			s.Fetch(context.Background())
			return
		}
		// Local clear only; no implication for server-side state.
		s.setLines(nil)
	})
	return s
}

// Lines returns a snapshot of the current cart.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total sums precio*cantidad over the current lines.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, l := range s.lines {
		total += l.Precio * float64(l.Cantidad)
	}
	return total
}

// Fetch replaces the local list wholesale with the server's cart. Any
// failure yields an empty list, never a stale one.
func (s *Store) Fetch(ctx context.Context) {
	lines, err := s.client.Cart(ctx)
	if err != nil {
		s.log.Error("cart fetch failed", "error", err)
		s.toasts.Fail("Error al cargar el carrito")
		s.setLines(nil)
		return
	}
	s.setLines(lines)
}

// Add puts quantity units of product into the remote cart. A logged-out
// session makes this a no-op with a warning; no request is issued.
func (s *Store) Add(ctx context.Context, product models.Product, quantity int) {
	if !s.session.LoggedIn() {
		s.toasts.Warn("Debes iniciar sesión para agregar productos al carrito")
		return
	}
	if quantity < 1 {
		quantity = 1
	}

	_, err := s.client.AddCartLine(ctx, product.ID, quantity)
	if err != nil {
		s.log.Error("cart add failed", "product_id", product.ID, "error", err)
		msg := api.Detail(err)
		if msg == "" {
			msg = "Error al agregar el producto al carrito"
		}
		s.toasts.Fail(msg)
		return
	}

	s.Fetch(ctx)
	s.toasts.Ok(fmt.Sprintf("%s agregado al carrito", product.Nombre), notify.RequiresAuth())
}

// Remove deletes one line by id.
func (s *Store) Remove(ctx context.Context, lineID uint) {
	if !s.session.LoggedIn() {
		return
	}

	if err := s.client.DeleteCartLine(ctx, lineID); err != nil {
		s.log.Error("cart remove failed", "line_id", lineID, "error", err)
		s.toasts.Fail("Error al eliminar el producto")
		return
	}

	s.Fetch(ctx)
	s.toasts.Ok("Producto eliminado del carrito", notify.RequiresAuth())
}

// UpdateQuantity sets a line's quantity. Anything at or below zero removes
// the line; a non-positive quantity is never persisted.
func (s *Store) UpdateQuantity(ctx context.Context, lineID uint, quantity int) {
	if !s.session.LoggedIn() {
		return
	}

	if quantity <= 0 {
		s.Remove(ctx, lineID)
		return
	}

	if err := s.client.UpdateCartLine(ctx, lineID, quantity); err != nil {
		s.log.Error("cart update failed", "line_id", lineID, "error", err)
		s.toasts.Fail("Error al actualizar la cantidad")
		return
	}

	s.Fetch(ctx)
}

// Clear empties the remote cart. On success the local list is set empty
// directly; the post-state is known, so there is nothing to re-fetch.
func (s *Store) Clear(ctx context.Context) {
	if !s.session.LoggedIn() {
		return
	}

	if err := s.client.ClearCart(ctx); err != nil {
		s.log.Error("cart clear failed", "error", err)
		s.toasts.Fail("Error al vaciar el carrito")
		return
	}

	s.setLines(nil)
	s.toasts.Ok("Carrito vaciado", notify.RequiresAuth())
}

func (s *Store) setLines(lines []models.CartLine) {
	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
}
