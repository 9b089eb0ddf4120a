package devapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tiendago/storefront/internal/hash"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	Producer  *Producer
}

// detail mirrors the error body shape of the platform API.
func detail(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"detail": msg})
}

func (h *AuthHandler) publish(c echo.Context, topic string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, topic, fmt.Sprint(event["user_id"]), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

type sessionResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.FormValue("username")))
	password := c.FormValue("password")
	if email == "" || password == "" {
		return detail(c, http.StatusUnauthorized, "Email o contraseña incorrectos.")
	}

	var user User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return detail(c, http.StatusUnauthorized, "Email o contraseña incorrectos.")
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return detail(c, http.StatusUnauthorized, "Email o contraseña incorrectos.")
	}

	token, err := mintToken(h.JWTSecret, &user)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "could not create token")
	}

	h.publish(c, "user_events", map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
		"email":   user.Email,
	})

	return c.JSON(http.StatusOK, sessionResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        &user,
	})
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Nombre   string `json:"nombre"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Tipo     string `json:"tipo"`
	}
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Nombre == "" || req.Email == "" || req.Password == "" {
		return detail(c, http.StatusBadRequest, "nombre, email y password son obligatorios")
	}
	if req.Tipo == "" {
		req.Tipo = "cliente"
	}

	var existing User
	err := h.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return detail(c, http.StatusBadRequest, "El email ya está registrado.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return detail(c, http.StatusInternalServerError, err.Error())
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "could not hash password")
	}

	user := User{
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         req.Tipo,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}

	token, err := mintToken(h.JWTSecret, &user)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "could not create token")
	}

	h.publish(c, "user_events", map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})

	return c.JSON(http.StatusCreated, sessionResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        &user,
	})
}

const resetTokenTTL = time.Hour

func (h *AuthHandler) Forgot(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var user User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		// Do not reveal whether the account exists.
		return c.JSON(http.StatusOK, map[string]string{
			"msg": "Si el email existe, se envió un enlace de restablecimiento.",
		})
	}

	reset := PasswordReset{
		Email:     email,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := h.DB.Create(&reset).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}

	// Dev server has no mailer; the token comes back in the response.
	return c.JSON(http.StatusOK, map[string]string{
		"msg":         "Si el email existe, se envió un enlace de restablecimiento.",
		"reset_token": reset.Token,
	})
}

func (h *AuthHandler) Reset(c echo.Context) error {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.NewPassword == "" {
		return detail(c, http.StatusBadRequest, "token y new_password son obligatorios")
	}

	var reset PasswordReset
	if err := h.DB.Where("token = ? AND used = ?", req.Token, false).First(&reset).Error; err != nil {
		return detail(c, http.StatusBadRequest, "Token inválido o expirado.")
	}
	if time.Now().After(reset.ExpiresAt) {
		return detail(c, http.StatusBadRequest, "Token inválido o expirado.")
	}

	passwordHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "could not hash password")
	}

	if err := h.DB.Model(&User{}).Where("email = ?", reset.Email).
		Update("password_hash", passwordHash).Error; err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	h.DB.Model(&reset).Update("used", true)

	return c.JSON(http.StatusOK, map[string]string{"msg": "Contraseña actualizada."})
}

func (h *AuthHandler) Me(c echo.Context) error {
	var user User
	if err := h.DB.First(&user, currentUserID(c)).Error; err != nil {
		return detail(c, http.StatusUnauthorized, "invalid token")
	}
	return c.JSON(http.StatusOK, &user)
}
