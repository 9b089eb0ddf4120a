package devapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB             *gorm.DB
	PublishableKey string
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req struct {
		Items []OrderItem `json:"items"`
		Total float64     `json:"total"`
	}
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	if len(req.Items) == 0 {
		return detail(c, http.StatusBadRequest, "el pedido no tiene artículos")
	}

	var user User
	if err := h.DB.First(&user, currentUserID(c)).Error; err != nil {
		return detail(c, http.StatusUnauthorized, "invalid token")
	}

	order := Order{
		UserID: user.ID,
		Email:  user.Email,
		Total:  req.Total,
		Items:  req.Items,
	}
	if err := h.DB.Create(&order).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}

	payment := Payment{OrderID: order.ID, Email: user.Email, Total: order.Total}
	if err := h.DB.Create(&payment).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, &order)
}

func (h *OrderHandler) PaymentsConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"publishableKey": h.PublishableKey,
	})
}

// CreateCheckoutSession fakes the hosted gateway: it hands back a session id
// without talking to any payment provider.
func (h *OrderHandler) CreateCheckoutSession(c echo.Context) error {
	var req struct {
		LineItems     []OrderItem `json:"line_items"`
		CustomerEmail string      `json:"customer_email"`
	}
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	if len(req.LineItems) == 0 {
		return detail(c, http.StatusBadRequest, "line_items vacío")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"sessionId": "cs_test_" + uuid.NewString(),
	})
}

func (h *OrderHandler) CreateDevolution(c echo.Context) error {
	var req struct {
		OrderID uint   `json:"order_id"`
		Email   string `json:"email"`
		Reason  string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.OrderID == 0 || req.Email == "" {
		return detail(c, http.StatusBadRequest, "order_id y email son obligatorios")
	}

	var order Order
	if err := h.DB.First(&order, req.OrderID).Error; err != nil {
		return detail(c, http.StatusNotFound, "Pedido no encontrado")
	}

	dev := Devolution{OrderID: req.OrderID, Email: req.Email, Reason: req.Reason}
	if err := h.DB.Create(&dev).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message":       "Devolución registrada",
		"devolution_id": dev.ID,
	})
}
