package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/transport/http/handler"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/transport/http/middleware"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Order    *handler.OrderHandler
	Stats    *handler.StatsHandler
}

func RegisterRoutes(app *fiber.App, h *Handlers, jwtSecret string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)

	products := api.Group("/products")
	products.Get("", h.Product.List)
	products.Get("/:slugOrId", h.Product.Get)

	cart := api.Group("/cart")
	cart.Get("", h.Cart.Get)
	cart.Post("/items", h.Cart.AddItem)
	cart.Patch("/items/:id", h.Cart.UpdateQuantity)
	cart.Delete("/items/:id", h.Cart.RemoveItem)
	cart.Delete("", h.Cart.Clear)

	checkout := api.Group("/checkout")
	checkout.Post("", h.Checkout.Start)
	checkout.Get("/:id", h.Checkout.Get)
	checkout.Put("/:id/contact", h.Checkout.SetContact)
	checkout.Put("/:id/shipping", h.Checkout.SetShipping)
	checkout.Put("/:id/payment", h.Checkout.SetPayment)
	checkout.Get("/:id/review", h.Checkout.Review)
	checkout.Post("/:id/confirm", h.Checkout.Confirm)

	api.Post("/orders", h.Order.Create)
	api.Get("/orders/:orderNumber", h.Order.Get)

	admin := api.Group("/admin",
		middleware.NewAuthMiddleware(jwtSecret),
		middleware.RequireRole(domain.AdminRoles...),
	)

	admin.Get("/orders", h.Order.List)
	admin.Get("/orders/:orderNumber", h.Order.Get)
	admin.Patch("/orders/:orderNumber/status", h.Order.UpdateStatus)

	admin.Get("/stats", h.Stats.Dashboard)

	admin.Post("/products", h.Product.Create)
	admin.Put("/products/:id", h.Product.Update)
	admin.Delete("/products/:id", h.Product.Delete)
}
