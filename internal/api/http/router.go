package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/taskdesk/ticket-management/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Accounts *handlers.AccountsHandler
	Tickets  *handlers.TicketsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	accounts := app.Group("/accounts")
	accounts.Post("/", cfg.Accounts.CreateAccount)
	accounts.Get("/", cfg.Accounts.ListAccounts)
	accounts.Get("/:id", cfg.Accounts.GetAccount)
	accounts.Get("/:id/tickets", cfg.Accounts.ListAccountTickets)
	accounts.Put("/:id", cfg.Accounts.UpdateAccount)
	accounts.Delete("/:id", cfg.Accounts.DeleteAccount)

	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Put("/:id/assign/:accountId", cfg.Tickets.AssignTicket)
}
