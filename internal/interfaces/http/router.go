package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contalibre/conteo-api/internal/application/counting"
	"github.com/contalibre/conteo-api/internal/application/stock"
	"github.com/contalibre/conteo-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC          *usecase.ItemUseCase
	LocationUC      *usecase.LocationUseCase
	Ledger          *stock.LedgerUseCase
	LowStock        *stock.LowStockUseCase
	Sessions        *counting.SessionUseCase
	RecordCount     *counting.RecordCountUseCase
	CompleteSession *counting.CompleteSessionUseCase
	Export          *counting.ExportUseCase
	JWTSecret       string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las
// escrituras de catálogo son solo admin y las de conteo/stock admin o
// bodeguero. El contador tiene lectura completa.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	adminOnly := RequireRole(RoleAdmin)
	warehouse := RequireRole(RoleAdmin, RoleBodeguero)

	// Catálogo de artículos
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Get("/", itemHandler.List)
	items.Get("/search", itemHandler.Search)
	items.Get("/:id", itemHandler.GetByID)
	items.Post("/", adminOnly, itemHandler.Create)
	items.Put("/:id", adminOnly, itemHandler.Update)
	items.Delete("/:id", adminOnly, itemHandler.Deactivate)

	// Ubicaciones
	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Post("/", adminOnly, locationHandler.Create)
	locations.Put("/:id", adminOnly, locationHandler.Update)

	// Libro de existencias
	stockGroup := api.Group("/stock")
	stockHandler := NewStockHandler(deps.Ledger, deps.LowStock)
	stockGroup.Get("/movements", stockHandler.ListMovements)
	stockGroup.Get("/levels", stockHandler.Levels)
	stockGroup.Get("/low", stockHandler.LowStock)
	stockGroup.Post("/movements", warehouse, stockHandler.AppendMovement)
	stockGroup.Post("/transfers", warehouse, stockHandler.Transfer)

	// Conteos físicos
	countingGroup := api.Group("/counting")
	countingHandler := NewCountingHandler(deps.Sessions, deps.RecordCount, deps.CompleteSession, deps.Export)
	countingGroup.Get("/sessions", countingHandler.ListSessions)
	countingGroup.Get("/sessions/:id/positions", countingHandler.Positions)
	countingGroup.Get("/sessions/:id/sheet", countingHandler.CountSheet)
	countingGroup.Get("/sessions/:id/report", countingHandler.SessionReport)
	countingGroup.Post("/sessions", warehouse, countingHandler.CreateSession)
	countingGroup.Put("/positions/:id/count", warehouse, countingHandler.RecordCount)
	countingGroup.Post("/sessions/:id/complete", warehouse, countingHandler.CompleteSession)
	countingGroup.Post("/sessions/:id/cancel", warehouse, countingHandler.CancelSession)
}
