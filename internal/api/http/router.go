package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Users          *handlers.UsersHandler
	Lookups        *handlers.LookupHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Users.ChangePassword)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Post("", auth.RequireRole(domain.RoleManager), cfg.Users.CreateUser)
	users.Get("", auth.RequireRole(domain.RoleManager), cfg.Users.ListUsers)
	users.Get("/:id", auth.RequireAnyRole(), cfg.Users.GetUser)
	users.Patch("/:id/active", auth.RequireRole(domain.RoleManager), cfg.Users.SetActive)
	users.Get("/:id/tickets", auth.RequireAnyRole(), cfg.Tickets.ListTicketsByUser)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Patch("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/assign", auth.RequireRole(domain.RoleManager), cfg.Tickets.AssignTicket)
	tickets.Delete("/:id", auth.RequireRole(domain.RoleManager), cfg.Tickets.DeleteTicket)
	tickets.Get("/:id/history", cfg.Tickets.StatusHistory)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Put("/:id/comments/:commentId", cfg.Tickets.UpdateComment)
	tickets.Delete("/:id/comments/:commentId", cfg.Tickets.DeleteComment)

	products := app.Group("/products", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	products.Post("", cfg.Lookups.CreateProduct)
	products.Get("", cfg.Lookups.ListProducts)
	products.Get("/:id", cfg.Lookups.GetProduct)
	products.Put("/:id", cfg.Lookups.UpdateProduct)
	products.Delete("/:id", cfg.Lookups.DeleteProduct)

	ticketTypes := app.Group("/ticket-types", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	ticketTypes.Post("", cfg.Lookups.CreateTicketType)
	ticketTypes.Get("", cfg.Lookups.ListTicketTypes)
	ticketTypes.Get("/:id", cfg.Lookups.GetTicketType)
	ticketTypes.Put("/:id", cfg.Lookups.UpdateTicketType)
	ticketTypes.Delete("/:id", cfg.Lookups.DeleteTicketType)

	categories := app.Group("/ticket-categories", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	categories.Post("", cfg.Lookups.CreateTicketCategory)
	categories.Get("", cfg.Lookups.ListTicketCategories)
	categories.Put("/:id", cfg.Lookups.UpdateTicketCategory)
	categories.Delete("/:id", cfg.Lookups.DeleteTicketCategory)

	app.Get("/ticket-statuses", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Lookups.ListTicketStatuses)
}
