package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/marketplace/internal/api/http/handlers"
	"github.com/spec-kit/marketplace/internal/auth"
	"github.com/spec-kit/marketplace/internal/domain"
	"github.com/spec-kit/marketplace/internal/observability"
)

// IdentityRouteConfig bundles dependencies for the identity service routes.
type IdentityRouteConfig struct {
	Health    *handlers.HealthHandler
	Users     *handlers.UsersHandler
	Addresses *handlers.AddressesHandler
	Gate      *auth.AccessGate
	Metrics   *observability.Metrics
}

// RegisterIdentityRoutes wires the identity service HTTP surface.
func RegisterIdentityRoutes(app *fiber.App, cfg IdentityRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	api := app.Group("/api/auth")
	api.Post("/register", cfg.Users.Register)
	api.Post("/login", cfg.Users.Login)

	protected := api.Group("", cfg.Gate.Handle, auth.RequireAuthenticated())
	protected.Get("/logout", cfg.Users.Logout)
	protected.Get("/me", cfg.Users.Me)
	protected.Get("/users/me/addresses", cfg.Addresses.List)
	protected.Post("/users/me/addresses", cfg.Addresses.Add)
	protected.Delete("/users/me/addresses/:addressId", cfg.Addresses.Delete)
}

// CatalogRouteConfig bundles dependencies for the catalog service routes.
type CatalogRouteConfig struct {
	Health   *handlers.HealthHandler
	Products *handlers.ProductsHandler
	Gate     *auth.AccessGate
	Metrics  *observability.Metrics
}

// RegisterCatalogRoutes wires the catalog service HTTP surface. Every
// mutation passes the gate plus the seller role check; reads are public.
func RegisterCatalogRoutes(app *fiber.App, cfg CatalogRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	sellerOnly := auth.RequireRole(domain.RoleSeller)

	api := app.Group("/api/products")
	api.Post("/", cfg.Gate.Handle, sellerOnly, cfg.Products.Create)
	api.Get("/", cfg.Products.List)
	// registered before /:id so "seller" is not captured as a product id
	api.Get("/seller", cfg.Gate.Handle, sellerOnly, cfg.Products.ListMine)
	api.Get("/:id", cfg.Products.Get)
	api.Patch("/:id", cfg.Gate.Handle, sellerOnly, cfg.Products.Update)
	api.Delete("/:id", cfg.Gate.Handle, sellerOnly, cfg.Products.Delete)
}
