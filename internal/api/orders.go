package api

import (
	"context"
	"net/http"

	"github.com/tiendago/storefront/internal/models"
)

func (c *Client) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	var created models.Order
	if err := c.do(ctx, http.MethodPost, "/orders", order, &created); err != nil {
		return models.Order{}, err
	}
	return created, nil
}

// PaymentsConfig returns the gateway publishable key. The shape of the
// response differs between deployments; both are accepted.
func (c *Client) PaymentsConfig(ctx context.Context) (string, error) {
	var resp struct {
		PublishableKey string `json:"publishableKey"`
		Stripe         *struct {
			PublishableKey string `json:"publishableKey"`
		} `json:"stripe"`
	}
	if err := c.do(ctx, http.MethodGet, "/payments/config", nil, &resp); err != nil {
		return "", err
	}
	if resp.PublishableKey != "" {
		return resp.PublishableKey, nil
	}
	if resp.Stripe != nil {
		return resp.Stripe.PublishableKey, nil
	}
	return "", nil
}

type checkoutRequest struct {
	LineItems     []models.OrderItem `json:"line_items"`
	CustomerEmail string             `json:"customer_email"`
}

func (c *Client) CreateCheckoutSession(ctx context.Context, items []models.OrderItem, customerEmail string) (string, error) {
	var resp struct {
		SessionID string `json:"sessionId"`
	}
	req := checkoutRequest{LineItems: items, CustomerEmail: customerEmail}
	if err := c.do(ctx, http.MethodPost, "/payments/create-checkout-session", req, &resp); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

type DevolutionResponse struct {
	Message      string `json:"message"`
	DevolutionID uint   `json:"devolution_id"`
}

func (c *Client) CreateDevolution(ctx context.Context, dev models.Devolution) (*DevolutionResponse, error) {
	var resp DevolutionResponse
	if err := c.do(ctx, http.MethodPost, "/devolutions", dev, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
