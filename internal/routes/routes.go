package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/handlers"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
)

// Services groups what the HTTP layer depends on.
type Services struct {
	Auth    handlers.AuthService
	Users   handlers.UserService
	Catalog handlers.CatalogService
	Orders  handlers.OrderService
	Health  map[string]handlers.Pinger
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, svc Services, jwtSecret string) {
	authHandler := handlers.NewAuthHandler(svc.Auth)
	profileHandler := handlers.NewProfileHandler(svc.Users)
	shippingHandler := handlers.NewAddressHandler(svc.Users, models.AddressShipping)
	billingHandler := handlers.NewAddressHandler(svc.Users, models.AddressBilling)
	productHandler := handlers.NewProductHandler(svc.Catalog)
	orderHandler := handlers.NewOrderHandler(svc.Orders)
	healthHandler := handlers.NewHealthHandler(svc.Health)

	requireAuth := middleware.AuthMiddleware(jwtSecret)

	api := app.Group("/api")
	api.Get("/health", healthHandler.Health)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/phone/send", authHandler.SendPhoneCode)
	auth.Post("/phone/verify", authHandler.VerifyPhone)
	auth.Post("/email/confirm", authHandler.ConfirmEmail)

	// Account routes
	users := api.Group("/users", requireAuth)
	users.Get("/me", profileHandler.Me)
	users.Get("/profile", profileHandler.GetProfile)
	users.Put("/profile", profileHandler.UpdateProfile)
	registerAddresses(users.Group("/addresses/shipping"), shippingHandler)
	registerAddresses(users.Group("/addresses/billing"), billingHandler)

	// Catalog routes
	products := api.Group("/products")
	products.Get("/categories", productHandler.ListCategories)
	products.Get("/categories/:id", productHandler.GetCategory)
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Post("/", requireAuth, productHandler.CreateProduct)
	products.Put("/:id", requireAuth, productHandler.UpdateProduct)
	products.Delete("/:id", requireAuth, productHandler.DeleteProduct)

	// Order routes
	orders := api.Group("/orders", requireAuth)
	orders.Get("/", orderHandler.ListOrders)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Put("/:id", orderHandler.UpdateOrder)
	orders.Delete("/:id", orderHandler.DeleteOrder)
	orders.Get("/:order_id/items", orderHandler.ListItems)
	orders.Post("/:order_id/items", orderHandler.CreateItem)
	orders.Get("/:order_id/items/:id", orderHandler.GetItem)
	orders.Put("/:order_id/items/:id", orderHandler.UpdateItem)
	orders.Delete("/:order_id/items/:id", orderHandler.DeleteItem)
}

func registerAddresses(router fiber.Router, h *handlers.AddressHandler) {
	router.Get("/", h.List)
	router.Post("/", h.Create)
	router.Get("/:id", h.Get)
	router.Put("/:id", h.Update)
	router.Delete("/:id", h.Delete)
}
