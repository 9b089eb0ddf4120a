package devapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	T    *testing.T
	E    *echo.Echo
	Deps *Deps
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &Config{
		DB_FILE:         filepath.Join(t.TempDir(), "devapi.db"),
		JWT_SECRET:      "test-secret",
		PUBLISHABLE_KEY: "pk_test_x",
	}
	db, err := InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	deps := NewDeps(db, cfg, NewProducer(""))
	Register(e, deps)

	return &testEnv{T: t, E: e, Deps: deps}
}

func (env *testEnv) doJSON(method, path string, body any, token string) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doForm(path string, form url.Values) *httptest.ResponseRecorder {
	env.T.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

// register creates a user of the given role and returns a usable token.
func (env *testEnv) register(role string) (string, User) {
	env.T.Helper()

	rec := env.doJSON(http.MethodPost, "/api/auth/register", map[string]string{
		"nombre":   "Usuario " + role,
		"email":    role + "@example.com",
		"password": "secret123",
		"tipo":     role,
	}, "")
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		User        User   `json:"user"`
	}
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(env.T, resp.AccessToken)
	return resp.AccessToken, resp.User
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	env.register("cliente")

	form := url.Values{}
	form.Set("username", "cliente@example.com")
	form.Set("password", "secret123")
	rec := env.doForm("/api/auth/login", form)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[map[string]any](t, rec)
	require.Equal(t, "bearer", resp["token_type"])
	require.NotEmpty(t, resp["access_token"])

	user, ok := resp["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "cliente@example.com", user["email"])
	_, leaked := user["password_hash"]
	require.False(t, leaked)
}

func TestLoginWrongPasswordIsGeneric(t *testing.T) {
	env := newTestEnv(t)
	env.register("cliente")

	form := url.Values{}
	form.Set("username", "cliente@example.com")
	form.Set("password", "nope")
	rec := env.doForm("/api/auth/login", form)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeJSON[map[string]string](t, rec)
	require.Equal(t, "Email o contraseña incorrectos.", body["detail"])

	// unknown account reads the same
	form.Set("username", "ghost@example.com")
	rec = env.doForm("/api/auth/login", form)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body = decodeJSON[map[string]string](t, rec)
	require.Equal(t, "Email o contraseña incorrectos.", body["detail"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register("cliente")

	rec := env.doJSON(http.MethodPost, "/api/auth/register", map[string]string{
		"nombre":   "Otro",
		"email":    "cliente@example.com",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeJSON[map[string]string](t, rec)
	require.Equal(t, "El email ya está registrado.", body["detail"])
}

func TestMeRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	token, user := env.register("cliente")

	rec := env.doJSON(http.MethodGet, "/api/users/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/users/me", nil, "garbage")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/users/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeJSON[User](t, rec)
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, user.Email, got.Email)
}

func TestForgotResetFlow(t *testing.T) {
	env := newTestEnv(t)
	env.register("cliente")

	rec := env.doJSON(http.MethodPost, "/api/auth/forgot", map[string]string{
		"email": "cliente@example.com",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON[map[string]string](t, rec)
	resetToken := body["reset_token"]
	require.NotEmpty(t, resetToken)

	rec = env.doJSON(http.MethodPost, "/api/auth/reset", map[string]string{
		"token":        resetToken,
		"new_password": "newsecret",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// the token is single-use
	rec = env.doJSON(http.MethodPost, "/api/auth/reset", map[string]string{
		"token":        resetToken,
		"new_password": "again",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	form := url.Values{}
	form.Set("username", "cliente@example.com")
	form.Set("password", "newsecret")
	rec = env.doForm("/api/auth/login", form)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestForgotUnknownEmailDoesNotReveal(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/auth/forgot", map[string]string{
		"email": "ghost@example.com",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON[map[string]string](t, rec)
	require.Empty(t, body["reset_token"])
}

func TestCartMergeOnRepeatedAdd(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("cliente")

	product := Product{Nombre: "Taza", Precio: 9.5}
	require.NoError(t, env.Deps.DB.Create(&product).Error)

	payload := map[string]any{"producto_id": product.ID, "cantidad": 2}
	rec := env.doJSON(http.MethodPost, "/api/cart", payload, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/cart", payload, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/cart", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	items := decodeJSON[[]CartItem](t, rec)
	require.Len(t, items, 1)
	require.Equal(t, 4, items[0].Cantidad)
	require.Equal(t, "Taza", items[0].Nombre)
	require.InDelta(t, 9.5, items[0].Precio, 0.001)
}

func TestCartIsScopedPerUser(t *testing.T) {
	env := newTestEnv(t)
	tokenA, _ := env.register("cliente")

	rec := env.doJSON(http.MethodPost, "/api/auth/register", map[string]string{
		"nombre": "Otra", "email": "otra@example.com", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	respB := decodeJSON[map[string]any](t, rec)
	tokenB := respB["access_token"].(string)

	product := Product{Nombre: "Silla", Precio: 40}
	require.NoError(t, env.Deps.DB.Create(&product).Error)

	rec = env.doJSON(http.MethodPost, "/api/cart", map[string]any{"producto_id": product.ID, "cantidad": 1}, tokenA)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/cart", nil, tokenB)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeJSON[[]CartItem](t, rec))
}

func TestCartUpdateDeleteClear(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("cliente")

	products := []Product{{Nombre: "Taza", Precio: 9.5}, {Nombre: "Plato", Precio: 4}}
	require.NoError(t, env.Deps.DB.Create(&products).Error)

	for _, p := range products {
		rec := env.doJSON(http.MethodPost, "/api/cart", map[string]any{"producto_id": p.ID, "cantidad": 1}, token)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.doJSON(http.MethodGet, "/api/cart", nil, token)
	items := decodeJSON[[]CartItem](t, rec)
	require.Len(t, items, 2)

	rec = env.doJSON(http.MethodPut, "/api/cart/"+itoa(items[0].ID), map[string]int{"cantidad": 5}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 5, decodeJSON[CartItem](t, rec).Cantidad)

	rec = env.doJSON(http.MethodPut, "/api/cart/"+itoa(items[0].ID), map[string]int{"cantidad": 0}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSON(http.MethodDelete, "/api/cart/"+itoa(items[1].ID), nil, token)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doJSON(http.MethodDelete, "/api/cart", nil, token)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/cart", nil, token)
	require.Empty(t, decodeJSON[[]CartItem](t, rec))
}

func TestCreateOrderRecordsPayment(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("cliente")

	rec := env.doJSON(http.MethodPost, "/api/orders", map[string]any{
		"items": []map[string]any{
			{"producto_id": 1, "nombre": "Taza", "precio": 9.5, "cantidad": 2},
		},
		"total": 19.0,
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	order := decodeJSON[Order](t, rec)
	require.NotZero(t, order.ID)
	require.Len(t, order.Items, 1)

	var payment Payment
	require.NoError(t, env.Deps.DB.Where("order_id = ?", order.ID).First(&payment).Error)
	require.Equal(t, "pending", payment.Status)
	require.InDelta(t, 19.0, payment.Total, 0.001)
}

func TestCreateOrderRejectsEmpty(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("cliente")

	rec := env.doJSON(http.MethodPost, "/api/orders", map[string]any{"items": []any{}}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutSessionAndConfig(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("cliente")

	rec := env.doJSON(http.MethodGet, "/api/payments/config", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	cfg := decodeJSON[map[string]string](t, rec)
	require.Equal(t, "pk_test_x", cfg["publishableKey"])

	rec = env.doJSON(http.MethodPost, "/api/payments/create-checkout-session", map[string]any{
		"line_items":     []map[string]any{{"producto_id": 1, "cantidad": 1}},
		"customer_email": "cliente@example.com",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	session := decodeJSON[map[string]string](t, rec)
	require.True(t, strings.HasPrefix(session["sessionId"], "cs_test_"))
}

func TestDevolutionRequiresExistingOrder(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/devolutions", map[string]any{
		"order_id": 42, "email": "cliente@example.com", "reason": "roto",
	}, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	order := Order{UserID: 1, Email: "cliente@example.com", Total: 10}
	require.NoError(t, env.Deps.DB.Create(&order).Error)

	rec = env.doJSON(http.MethodPost, "/api/devolutions", map[string]any{
		"order_id": order.ID, "email": "cliente@example.com", "reason": "roto",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeJSON[map[string]any](t, rec)
	require.Equal(t, "Devolución registrada", body["message"])
	require.NotZero(t, body["devolution_id"])
}

func TestAdminRoutesRequireRole(t *testing.T) {
	env := newTestEnv(t)
	customerToken, _ := env.register("cliente")
	adminToken, _ := env.register("admin")

	rec := env.doJSON(http.MethodGet, "/api/admin/users", nil, customerToken)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/admin/users", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/admin/users", nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeJSON[[]User](t, rec), 2)
}

func TestAdminPatchIgnoresUnknownColumns(t *testing.T) {
	env := newTestEnv(t)
	adminToken, _ := env.register("admin")

	product := Product{Nombre: "Taza", Precio: 9.5}
	require.NoError(t, env.Deps.DB.Create(&product).Error)

	rec := env.doJSON(http.MethodPatch, "/api/admin/products/"+itoa(product.ID), map[string]any{
		"precio":    12.0,
		"vendor_id": 99,
	}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var got Product
	require.NoError(t, env.Deps.DB.First(&got, product.ID).Error)
	require.InDelta(t, 12.0, got.Precio, 0.001)
	require.Zero(t, got.VendorID)
}

func TestAdminConfigRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	adminToken, _ := env.register("admin")

	rec := env.doJSON(http.MethodPatch, "/api/admin/config", map[string]any{
		"maintenance": true,
		"banner":      "rebajas",
	}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/admin/config", nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)

	cfg := decodeJSON[map[string]any](t, rec)
	require.Equal(t, true, cfg["maintenance"])
	require.Equal(t, "rebajas", cfg["banner"])
}

func TestVendorProductOwnership(t *testing.T) {
	env := newTestEnv(t)
	vendorToken, _ := env.register("vendor")
	otherToken, _ := env.registerAs("vendor", "otro-vendor@example.com")

	rec := env.doJSON(http.MethodPost, "/api/vendor/products", map[string]any{
		"nombre": "Lámpara", "precio": 25.0, "categoria": "hogar",
	}, vendorToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	product := decodeJSON[Product](t, rec)

	rec = env.doJSON(http.MethodGet, "/api/vendor/products", nil, vendorToken)
	require.Len(t, decodeJSON[[]Product](t, rec), 1)

	rec = env.doJSON(http.MethodGet, "/api/vendor/products", nil, otherToken)
	require.Empty(t, decodeJSON[[]Product](t, rec))

	// another vendor cannot touch it
	rec = env.doJSON(http.MethodPatch, "/api/vendor/products/"+itoa(product.ID), map[string]any{"precio": 1.0}, otherToken)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVendorStats(t *testing.T) {
	env := newTestEnv(t)
	vendorToken, vendor := env.register("vendor")

	products := []Product{
		{Nombre: "Lámpara", Precio: 25, VendorID: vendor.ID},
		{Nombre: "Mesa", Precio: 100, VendorID: vendor.ID},
	}
	require.NoError(t, env.Deps.DB.Create(&products).Error)

	order := Order{
		UserID: vendor.ID,
		Email:  "cliente@example.com",
		Total:  150,
		Items: []OrderItem{
			{ProductID: products[0].ID, Nombre: "Lámpara", Precio: 25, Cantidad: 2},
			{ProductID: products[1].ID, Nombre: "Mesa", Precio: 100, Cantidad: 1},
		},
	}
	require.NoError(t, env.Deps.DB.Create(&order).Error)

	rec := env.doJSON(http.MethodGet, "/api/vendor/stats", nil, vendorToken)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decodeJSON[map[string]float64](t, rec)
	require.Equal(t, float64(2), stats["productos"])
	require.Equal(t, float64(1), stats["ordenes"])
	require.InDelta(t, 150.0, stats["total_ventas"], 0.001)
}

func TestProductsListAndDetail(t *testing.T) {
	env := newTestEnv(t)

	products := []Product{{Nombre: "Taza", Precio: 9.5}, {Nombre: "Plato", Precio: 4}}
	require.NoError(t, env.Deps.DB.Create(&products).Error)

	rec := env.doJSON(http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeJSON[[]Product](t, rec), 2)

	rec = env.doJSON(http.MethodGet, "/api/products/"+itoa(products[0].ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Taza", decodeJSON[Product](t, rec).Nombre)

	rec = env.doJSON(http.MethodGet, "/api/products/999", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Producto no encontrado", decodeJSON[map[string]string](t, rec)["detail"])
}

// registerAs registers with an explicit email so a test can hold two users
// of the same role.
func (env *testEnv) registerAs(role, email string) (string, User) {
	env.T.Helper()

	rec := env.doJSON(http.MethodPost, "/api/auth/register", map[string]string{
		"nombre":   "Usuario",
		"email":    email,
		"password": "secret123",
		"tipo":     role,
	}, "")
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		User        User   `json:"user"`
	}
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.AccessToken, resp.User
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
