package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tiendago/storefront/internal/models"
)

func (c *Client) Cart(ctx context.Context) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

type addCartRequest struct {
	ProductID uint `json:"producto_id"`
	Cantidad  int  `json:"cantidad"`
}

func (c *Client) AddCartLine(ctx context.Context, productID uint, cantidad int) (models.CartLine, error) {
	var line models.CartLine
	req := addCartRequest{ProductID: productID, Cantidad: cantidad}
	if err := c.do(ctx, http.MethodPost, "/cart", req, &line); err != nil {
		return models.CartLine{}, err
	}
	return line, nil
}

func (c *Client) UpdateCartLine(ctx context.Context, id uint, cantidad int) error {
	body := map[string]int{"cantidad": cantidad}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/cart/%d", id), body, nil)
}

func (c *Client) DeleteCartLine(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/%d", id), nil, nil)
}

// ClearCart removes every line of the remote cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart", nil, nil)
}
