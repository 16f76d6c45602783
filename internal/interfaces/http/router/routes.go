package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers served under the versioned API
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Shop     *handler.ShopHandler
	Sales    *handler.SalesHandler
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
	Report   *handler.ReportHandler
}

// LoginPath is the only API route served without a session
const LoginPath = "/auth/login"

// Guards are extra middleware placed in front of single routes
type Guards struct {
	Login      []gin.HandlerFunc // e.g. a rate limiter
	RecordSale []gin.HandlerFunc // e.g. idempotency keys
}

// APIGroups builds the route groups of the API with their role checks.
// Sessions are authenticated by Router-level middleware.
func APIGroups(h Handlers, guards Guards) []*DomainGroup {
	admin := middleware.RequireRole(identity.RoleAdmin)
	staff := middleware.RequireRole(identity.RoleAdmin, identity.RoleCashier)

	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/login", chain(guards.Login, h.Auth.Login)...).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.Me)

	users := NewDomainGroup("users", "/users").Use(admin)
	users.POST("", h.User.Register).
		GET("", h.User.List)

	shop := NewDomainGroup("shop", "/shop-owner")
	shop.GET("", staff, h.Shop.Get).
		PUT("", admin, h.Shop.Upsert)

	sales := NewDomainGroup("sales", "/sales")
	sales.POST("", chain(append([]gin.HandlerFunc{staff}, guards.RecordSale...), h.Sales.Record)...).
		GET("", staff, h.Sales.History).
		GET("/payment-methods", staff, h.Sales.PaymentMethods).
		DELETE("/:id", admin, h.Sales.Revoke)

	inventory := NewDomainGroup("inventory", "/inventory").Use(staff)
	inventory.GET("", h.Product.Inventory)

	catalog := NewDomainGroup("catalog", "/catalog")
	categories := catalog.Group("categories", "/categories")
	categories.GET("", staff, h.Category.List).
		GET("/:id", staff, h.Category.GetByID).
		POST("", admin, h.Category.Create).
		PUT("/:id", admin, h.Category.Update)
	products := catalog.Group("products", "/products")
	products.GET("", staff, h.Product.List).
		GET("/:id", staff, h.Product.GetByID).
		POST("", admin, h.Product.Create).
		PUT("/:id", admin, h.Product.Update)

	reports := NewDomainGroup("reports", "/reports").Use(admin)
	reports.GET("/products", h.Product.Report).
		GET("/profit", h.Report.Profit)
	salesReports := reports.Group("sales-reports", "/sales")
	salesReports.GET("/daily", h.Report.Daily).
		GET("/monthly", h.Report.Monthly).
		GET("/yearly", h.Report.Yearly).
		GET("/range", h.Report.Range).
		GET("/range/pdf", h.Report.RangePDF)

	return []*DomainGroup{auth, users, shop, sales, inventory, catalog, reports}
}

func chain(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	handlers := make([]gin.HandlerFunc, 0, len(guards)+1)
	handlers = append(handlers, guards...)
	return append(handlers, h)
}
