package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/inventario-erp/internal/application/document"
	"github.com/jhoicas/inventario-erp/internal/application/inventory"
	"github.com/jhoicas/inventario-erp/internal/application/settlement"
	"github.com/jhoicas/inventario-erp/internal/application/usecase"
	"github.com/jhoicas/inventario-erp/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-erp/internal/infrastructure/ws"
)

// RouterDeps dependencias para el router. Metrics y Hub son opcionales.
type RouterDeps struct {
	ServiceName    string
	Documents      *document.Engine
	Ledger         *inventory.Ledger
	Replenishment  *inventory.ReplenishmentUseCase
	Matcher        *settlement.Matcher
	ProductUC      *usecase.ProductUseCase
	WarehouseUC    *usecase.WarehouseUseCase
	CounterpartyUC *usecase.CounterpartyUseCase
	Metrics        *metrics.Metrics
	Hub            *ws.Hub
}

// Router registra las rutas de la API. Sin autenticación: la sesión la resuelve un colaborador externo.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	// Actualizaciones de saldo en vivo
	if deps.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", websocket.New(deps.Hub.Serve))
	}

	api := app.Group("/api")

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	counterparties := api.Group("/counterparties")
	counterpartyHandler := NewCounterpartyHandler(deps.CounterpartyUC)
	counterparties.Post("/", counterpartyHandler.Create)
	counterparties.Get("/:id", counterpartyHandler.GetByID)

	// Documentos: /:id numérico vs /:type textual comparten prefijo; GET solo existe por id.
	documents := api.Group("/documents")
	documentHandler := NewDocumentHandler(deps.Documents)
	documents.Post("/:id<int>/confirm", documentHandler.Confirm)
	documents.Post("/:id<int>/fulfill", documentHandler.Fulfill)
	documents.Post("/:id<int>/cancel", documentHandler.Cancel)
	documents.Get("/:id", documentHandler.GetByID)
	documents.Post("/:type", documentHandler.Create)

	stockHandler := NewStockHandler(deps.Ledger, deps.Replenishment)
	api.Get("/stock/balance", stockHandler.Balance)
	api.Get("/stock/warnings", stockHandler.Warnings)
	api.Get("/ledger/movements", stockHandler.Movements)

	settlements := api.Group("/settlements")
	settlementHandler := NewSettlementHandler(deps.Matcher)
	settlements.Post("/", settlementHandler.Settle)
	settlements.Get("/candidates", settlementHandler.Candidates)
}
