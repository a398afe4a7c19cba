package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-erp/internal/application/dto"
	"github.com/jhoicas/inventario-erp/internal/application/inventory"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
	"github.com/jhoicas/inventario-erp/pkg/validator"
)

// StockHandler consultas de saldos, avisos de reposición y libro de movimientos.
type StockHandler struct {
	ledger        *inventory.Ledger
	replenishment *inventory.ReplenishmentUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *inventory.Ledger, replenishment *inventory.ReplenishmentUseCase) *StockHandler {
	return &StockHandler{ledger: ledger, replenishment: replenishment}
}

// Balance godoc
// @Summary      Saldo y disponible de un SKU en una bodega
// @Tags         stock
// @Produce      json
// @Param        sku_id        query  int  true  "SKU"
// @Param        warehouse_id  query  int  true  "Bodega"
// @Success      200  {object}  dto.StockBalanceDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/balance [get]
func (h *StockHandler) Balance(c *fiber.Ctx) error {
	var q dto.BalanceQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	if err := validator.Validate(q); err != nil {
		return respondError(c, err)
	}
	ctx := c.UserContext()
	store := h.ledger.Store()
	b, err := store.GetBalance(ctx, q.SKUID, q.WarehouseID)
	if err != nil {
		return respondError(c, err)
	}
	available, err := store.Available(ctx, q.SKUID, q.WarehouseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockBalanceDTO{
		SKUID:       b.SKUID,
		WarehouseID: b.WarehouseID,
		Quantity:    b.Quantity,
		Available:   available,
		AvgCost:     b.AvgCost,
		UpdatedAt:   b.UpdatedAt,
	})
}

// Warnings godoc
// @Summary      SKU por debajo del punto de reorden con cantidad sugerida
// @Tags         stock
// @Produce      json
// @Param        warehouse_id  query  int  false  "Bodega (vacío = todas)"
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Router       /api/stock/warnings [get]
func (h *StockHandler) Warnings(c *fiber.Ctx) error {
	var q dto.WarningsQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	if err := validator.Validate(q); err != nil {
		return respondError(c, err)
	}
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), q.WarehouseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":    len(list),
		"warnings": list,
	})
}

// Movements godoc
// @Summary      Movimientos del libro
// @Tags         ledger
// @Produce      json
// @Param        sku_id        query  int  false  "SKU"
// @Param        warehouse_id  query  int  false  "Bodega"
// @Param        document_id   query  int  false  "Documento origen"
// @Param        limit         query  int  false  "Máximo de filas"
// @Param        offset        query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.ListResponse[dto.MovementDTO]
// @Router       /api/ledger/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	if err := validator.Validate(q); err != nil {
		return respondError(c, err)
	}
	q.DefaultPage()
	entries, err := h.ledger.List(c.UserContext(), repository.MovementFilter{
		SKUID:       q.SKUID,
		WarehouseID: q.WarehouseID,
		DocumentID:  q.DocumentID,
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.MovementDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.ToMovementDTO(e))
	}
	return c.JSON(dto.ListResponse[dto.MovementDTO]{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	})
}
