package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Behnamfe76/expense-ledger/internal/api/http/handlers"
	"github.com/Behnamfe76/expense-ledger/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Departments    *handlers.DepartmentsHandler
	Expenses       *handlers.ExpensesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Mutating routes go through the auth middleware.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	guard := cfg.AuthMiddleware.Handle

	deptos := app.Group("/departamentos")
	deptos.Get("/estado", cfg.Departments.Status)
	deptos.Get("", cfg.Departments.List)
	deptos.Post("", guard, cfg.Departments.Create)

	gastos := app.Group("/gastos")
	gastos.Get("", cfg.Expenses.List)
	gastos.Post("/generar", guard, cfg.Expenses.Generate)
	gastos.Get("/departamento/:id_depa", cfg.Expenses.ListByDepartment)
	gastos.Put("/:id_gastos/pago", guard, cfg.Expenses.UpdatePayment)
}
