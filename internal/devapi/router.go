package devapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Deps struct {
	DB             *gorm.DB
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	AdminHandler   *AdminHandler
	VendorHandler  *VendorHandler
	JWTSecret      []byte
}

// NewDeps wires every handler over one database connection.
func NewDeps(db *gorm.DB, cfg *Config, producer *Producer) *Deps {
	secret := []byte(cfg.JWT_SECRET)
	return &Deps{
		DB:             db,
		AuthHandler:    &AuthHandler{DB: db, JWTSecret: secret, Producer: producer},
		ProductHandler: &ProductHandler{DB: db},
		CartHandler:    &CartHandler{DB: db, Producer: producer},
		OrderHandler:   &OrderHandler{DB: db, PublishableKey: cfg.PUBLISHABLE_KEY},
		AdminHandler:   &AdminHandler{DB: db},
		VendorHandler:  &VendorHandler{DB: db},
		JWTSecret:      secret,
	}
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	api.POST("/auth/login", d.AuthHandler.Login)
	api.POST("/auth/register", d.AuthHandler.Register)
	api.POST("/auth/forgot", d.AuthHandler.Forgot)
	api.POST("/auth/reset", d.AuthHandler.Reset)

	api.GET("/products", d.ProductHandler.GetProducts)
	api.GET("/products/:id", d.ProductHandler.GetProduct)

	api.GET("/payments/config", d.OrderHandler.PaymentsConfig)
	api.POST("/devolutions", d.OrderHandler.CreateDevolution)

	authed := api.Group("", requireAuth(d.JWTSecret))

	authed.GET("/users/me", d.AuthHandler.Me)

	authed.GET("/cart", d.CartHandler.GetCart)
	authed.POST("/cart", d.CartHandler.AddToCart)
	authed.PUT("/cart/:id", d.CartHandler.UpdateQuantity)
	authed.DELETE("/cart/:id", d.CartHandler.DeleteLine)
	authed.DELETE("/cart", d.CartHandler.ClearCart)

	authed.POST("/orders", d.OrderHandler.CreateOrder)
	authed.POST("/payments/create-checkout-session", d.OrderHandler.CreateCheckoutSession)

	admin := api.Group("/admin", requireAuth(d.JWTSecret), requireRole("admin"))
	admin.GET("/products", d.AdminHandler.ListProducts)
	admin.PATCH("/products/:id", d.AdminHandler.PatchProduct)
	admin.DELETE("/products/:id", d.AdminHandler.DeleteProduct)
	admin.GET("/users", d.AdminHandler.ListUsers)
	admin.PATCH("/users/:id", d.AdminHandler.PatchUser)
	admin.DELETE("/users/:id", d.AdminHandler.DeleteUser)
	admin.GET("/payments", d.AdminHandler.ListPayments)
	admin.GET("/config", d.AdminHandler.GetConfig)
	admin.PATCH("/config", d.AdminHandler.PatchConfig)

	vendor := api.Group("/vendor", requireAuth(d.JWTSecret), requireRole("vendor"))
	vendor.GET("/products", d.VendorHandler.ListProducts)
	vendor.POST("/products", d.VendorHandler.CreateProduct)
	vendor.PATCH("/products/:id", d.VendorHandler.PatchProduct)
	vendor.DELETE("/products/:id", d.VendorHandler.DeleteProduct)
	vendor.GET("/orders", d.VendorHandler.ListOrders)
	vendor.GET("/stats", d.VendorHandler.Stats)
}
