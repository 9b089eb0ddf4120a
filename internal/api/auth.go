package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tiendago/storefront/internal/models"
)

type SessionResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

// Login authenticates with form-encoded credentials, OAuth2 password style.
func (c *Client) Login(ctx context.Context, email, password string) (*SessionResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var resp SessionResponse
	if err := c.doForm(ctx, "/auth/login", form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type RegisterRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Tipo     string `json:"tipo"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error) {
	if req.Tipo == "" {
		req.Tipo = models.RoleCustomer
	}

	var resp SessionResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type ForgotResponse struct {
	Msg        string `json:"msg"`
	ResetToken string `json:"reset_token,omitempty"`
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (*ForgotResponse, error) {
	var resp ForgotResponse
	body := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/auth/forgot", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	var resp struct {
		Msg string `json:"msg"`
	}
	body := map[string]string{"token": token, "new_password": newPassword}
	if err := c.do(ctx, http.MethodPost, "/auth/reset", body, &resp); err != nil {
		return "", err
	}
	return resp.Msg, nil
}

// Me fetches the user the current bearer token belongs to.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}
