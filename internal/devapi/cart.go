package devapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CartHandler struct {
	DB       *gorm.DB
	Producer *Producer
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", fmt.Sprint(event["user_id"]), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	var items []CartItem
	if err := h.DB.Where("user_id = ?", currentUserID(c)).Order("id ASC").Find(&items).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

// AddToCart puts producto_id/cantidad into the caller's cart. Lines are
// enriched with the product's name and price; adding a product already in
// the cart merges into the existing line.
func (h *CartHandler) AddToCart(c echo.Context) error {
	var req struct {
		ProductID uint `json:"producto_id"`
		Cantidad  int  `json:"cantidad"`
	}
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Cantidad < 1 {
		req.Cantidad = 1
	}

	var product Product
	if err := h.DB.First(&product, req.ProductID).Error; err != nil {
		return detail(c, http.StatusNotFound, "Producto no encontrado")
	}

	userID := currentUserID(c)

	var item CartItem
	err := h.DB.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&item).Error
	switch {
	case err == nil:
		item.Cantidad += req.Cantidad
		if err := h.DB.Save(&item).Error; err != nil {
			return detail(c, http.StatusInternalServerError, err.Error())
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = CartItem{
			UserID:    userID,
			ProductID: product.ID,
			Nombre:    product.Nombre,
			Precio:    product.Precio,
			Cantidad:  req.Cantidad,
		}
		if err := h.DB.Create(&item).Error; err != nil {
			return detail(c, http.StatusInternalServerError, err.Error())
		}
	default:
		return detail(c, http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":        "cart_item_added",
		"user_id":     userID,
		"producto_id": product.ID,
		"cantidad":    item.Cantidad,
	})

	return c.JSON(http.StatusCreated, &item)
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid line id")
	}

	var req struct {
		Cantidad int `json:"cantidad"`
	}
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Cantidad < 1 {
		return detail(c, http.StatusBadRequest, "cantidad must be at least 1")
	}

	userID := currentUserID(c)

	var item CartItem
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		return detail(c, http.StatusNotFound, "línea no encontrada")
	}

	item.Cantidad = req.Cantidad
	if err := h.DB.Save(&item).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, &item)
}

func (h *CartHandler) DeleteLine(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid line id")
	}

	userID := currentUserID(c)
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).
		Delete(&CartItem{}).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":    "cart_line_removed",
		"user_id": userID,
		"line_id": id,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	userID := currentUserID(c)
	if err := h.DB.Where("user_id = ?", userID).Delete(&CartItem{}).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":    "cart_cleared",
		"user_id": userID,
	})
	return c.NoContent(http.StatusNoContent)
}
