package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tiendago/storefront/internal/models"
)

// Vendor namespace, scoped server-side to the authenticated vendor.

func (c *Client) VendorProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/vendor/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) VendorCreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	var created models.Product
	if err := c.do(ctx, http.MethodPost, "/vendor/products", product, &created); err != nil {
		return models.Product{}, err
	}
	return created, nil
}

func (c *Client) VendorPatchProduct(ctx context.Context, id uint, patch map[string]any) (models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/vendor/products/%d", id), patch, &product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func (c *Client) VendorDeleteProduct(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/vendor/products/%d", id), nil, nil)
}

func (c *Client) VendorOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/vendor/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

type VendorStats struct {
	Productos   int     `json:"productos"`
	Ordenes     int     `json:"ordenes"`
	TotalVentas float64 `json:"total_ventas"`
}

func (c *Client) VendorStats(ctx context.Context) (*VendorStats, error) {
	var stats VendorStats
	if err := c.do(ctx, http.MethodGet, "/vendor/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
