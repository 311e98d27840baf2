package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/labels"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Roles que pueden cancelar movimientos.
var cancelRoles = []string{"admin", "supervisor"}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *inventory.RecordMovementUseCase
	Stock     *inventory.CurrentStockUseCase
	Labels    *labels.Service
	JWTSecret string
	JWTIssuer string
	Metrics   RequestObserver // opcional
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
	}

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Movimientos y stock
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Stock, deps.Log)
	invGroup.Post("/movements", inventoryHandler.RecordMovement)
	invGroup.Get("/movements/:id", inventoryHandler.GetMovement)
	invGroup.Post("/movements/:id/cancel", RequireRole(cancelRoles...), inventoryHandler.CancelMovement)
	invGroup.Get("/stock", inventoryHandler.GetCurrentStock)

	// Etiquetas por unidad
	labelGroup := protected.Group("/labels")
	labelHandler := NewLabelHandler(deps.Labels, deps.Log)
	labelGroup.Post("/plan", labelHandler.Plan)
	labelGroup.Post("/printed", labelHandler.MarkPrinted)
	labelGroup.Get("/code", labelHandler.Code)
}
