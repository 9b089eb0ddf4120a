package devapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tiendago/storefront/internal/util"
)

type ProductHandler struct {
	DB *gorm.DB
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// GetProducts lists the catalog as a flat array. page/size are optional.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var products []Product
	q := h.DB.Order("id ASC")
	if c.QueryParam("page") != "" || c.QueryParam("size") != "" {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&products).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid product id")
	}

	var product Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return detail(c, http.StatusNotFound, "Producto no encontrado")
	}
	return c.JSON(http.StatusOK, &product)
}
