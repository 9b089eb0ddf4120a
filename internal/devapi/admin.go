package devapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminHandler struct {
	DB *gorm.DB
}

func (h *AdminHandler) ListProducts(c echo.Context) error {
	var products []Product
	if err := h.DB.Order("id ASC").Find(&products).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, products)
}

func (h *AdminHandler) PatchProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid product id")
	}

	var patch map[string]any
	if err := c.Bind(&patch); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	var product Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return detail(c, http.StatusNotFound, "Producto no encontrado")
	}
	if err := h.DB.Model(&product).Updates(filterColumns(patch,
		"nombre", "descripcion", "precio", "categoria", "rating", "stock")).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, &product)
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid product id")
	}
	if err := h.DB.Delete(&Product{}, id).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	var users []User
	if err := h.DB.Order("id ASC").Find(&users).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) PatchUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid user id")
	}

	var patch map[string]any
	if err := c.Bind(&patch); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	var user User
	if err := h.DB.First(&user, id).Error; err != nil {
		return detail(c, http.StatusNotFound, "Usuario no encontrado")
	}
	if err := h.DB.Model(&user).Updates(filterColumns(patch, "nombre", "role")).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, &user)
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid user id")
	}
	if err := h.DB.Delete(&User{}, id).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) ListPayments(c echo.Context) error {
	var payments []Payment
	if err := h.DB.Order("id ASC").Find(&payments).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *AdminHandler) GetConfig(c echo.Context) error {
	var settings []Setting
	if err := h.DB.Find(&settings).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}

	out := make(map[string]any, len(settings))
	for _, s := range settings {
		var v any
		if err := json.Unmarshal([]byte(s.Value), &v); err != nil {
			v = s.Value
		}
		out[s.Key] = v
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) PatchConfig(c echo.Context) error {
	var patch map[string]any
	if err := c.Bind(&patch); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	for k, v := range patch {
		data, err := json.Marshal(v)
		if err != nil {
			return detail(c, http.StatusBadRequest, "invalid value for "+k)
		}
		s := Setting{Key: k, Value: string(data)}
		if err := h.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&s).Error; err != nil {
			return detail(c, http.StatusInternalServerError, err.Error())
		}
	}
	return h.GetConfig(c)
}

// filterColumns keeps only the allowed keys of a JSON patch so callers
// cannot update arbitrary columns.
func filterColumns(patch map[string]any, allowed ...string) map[string]any {
	out := make(map[string]any, len(patch))
	for _, k := range allowed {
		if v, ok := patch[k]; ok {
			out[k] = v
		}
	}
	return out
}
