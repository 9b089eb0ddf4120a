package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tiendago/storefront/internal/models"
)

// Admin namespace. Every call requires a bearer token with the admin role;
// the server answers 403 otherwise.

func (c *Client) AdminProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/admin/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) AdminPatchProduct(ctx context.Context, id uint, patch map[string]any) (models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/admin/products/%d", id), patch, &product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func (c *Client) AdminDeleteProduct(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/products/%d", id), nil, nil)
}

func (c *Client) AdminUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) AdminPatchUser(ctx context.Context, id uint, patch map[string]any) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/admin/users/%d", id), patch, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (c *Client) AdminDeleteUser(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/users/%d", id), nil, nil)
}

type Payment struct {
	ID      uint    `json:"id"`
	OrderID uint    `json:"order_id"`
	Email   string  `json:"email"`
	Total   float64 `json:"total"`
	Status  string  `json:"status"`
}

func (c *Client) AdminPayments(ctx context.Context) ([]Payment, error) {
	var payments []Payment
	if err := c.do(ctx, http.MethodGet, "/admin/payments", nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (c *Client) AdminConfig(ctx context.Context) (map[string]any, error) {
	var cfg map[string]any
	if err := c.do(ctx, http.MethodGet, "/admin/config", nil, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Client) AdminPatchConfig(ctx context.Context, patch map[string]any) (map[string]any, error) {
	var cfg map[string]any
	if err := c.do(ctx, http.MethodPatch, "/admin/config", patch, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
