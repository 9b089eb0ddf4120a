package devapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type VendorHandler struct {
	DB *gorm.DB
}

func (h *VendorHandler) ListProducts(c echo.Context) error {
	var products []Product
	if err := h.DB.Where("vendor_id = ?", currentUserID(c)).
		Order("id ASC").Find(&products).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, products)
}

func (h *VendorHandler) CreateProduct(c echo.Context) error {
	var req struct {
		Nombre      string  `json:"nombre"`
		Descripcion string  `json:"descripcion"`
		Precio      float64 `json:"precio"`
		Categoria   string  `json:"categoria"`
		Stock       uint    `json:"stock"`
	}
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Nombre == "" {
		return detail(c, http.StatusBadRequest, "nombre es obligatorio")
	}

	product := Product{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Precio:      req.Precio,
		Categoria:   req.Categoria,
		Stock:       req.Stock,
		VendorID:    currentUserID(c),
	}
	if err := h.DB.Create(&product).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, &product)
}

func (h *VendorHandler) PatchProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid product id")
	}

	var patch map[string]any
	if err := c.Bind(&patch); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	var product Product
	if err := h.DB.Where("id = ? AND vendor_id = ?", id, currentUserID(c)).
		First(&product).Error; err != nil {
		return detail(c, http.StatusNotFound, "Producto no encontrado")
	}
	if err := h.DB.Model(&product).Updates(filterColumns(patch,
		"nombre", "descripcion", "precio", "categoria", "stock")).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, &product)
}

func (h *VendorHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid product id")
	}
	if err := h.DB.Where("id = ? AND vendor_id = ?", id, currentUserID(c)).
		Delete(&Product{}).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ListOrders returns the orders that contain at least one of the vendor's
// products.
func (h *VendorHandler) ListOrders(c echo.Context) error {
	orderIDs, err := h.vendorOrderIDs(currentUserID(c))
	if err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	if len(orderIDs) == 0 {
		return c.JSON(http.StatusOK, []Order{})
	}

	var orders []Order
	if err := h.DB.Preload("Items").Where("id IN ?", orderIDs).
		Order("id ASC").Find(&orders).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *VendorHandler) Stats(c echo.Context) error {
	vendorID := currentUserID(c)

	var productCount int64
	if err := h.DB.Model(&Product{}).Where("vendor_id = ?", vendorID).
		Count(&productCount).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}

	orderIDs, err := h.vendorOrderIDs(vendorID)
	if err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}

	var total float64
	if len(orderIDs) > 0 {
		row := h.DB.Model(&OrderItem{}).
			Select("COALESCE(SUM(precio * cantidad), 0)").
			Where("order_id IN ?", orderIDs).
			Where("product_id IN (?)", h.DB.Model(&Product{}).Select("id").Where("vendor_id = ?", vendorID)).
			Row()
		if err := row.Scan(&total); err != nil {
			return detail(c, http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"productos":    productCount,
		"ordenes":      len(orderIDs),
		"total_ventas": total,
	})
}

func (h *VendorHandler) vendorOrderIDs(vendorID uint) ([]uint, error) {
	var ids []uint
	err := h.DB.Model(&OrderItem{}).
		Distinct("order_id").
		Where("product_id IN (?)", h.DB.Model(&Product{}).Select("id").Where("vendor_id = ?", vendorID)).
		Pluck("order_id", &ids).Error
	return ids, err
}
