package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-erp/internal/application/dto"
	"github.com/jhoicas/inventario-erp/internal/application/ports"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
)

// ReplenishmentUseCase genera los avisos de stock bajo por bodega.
type ReplenishmentUseCase struct {
	tx ports.TxRunner
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(tx ports.TxRunner) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{tx: tx}
}

// GenerateReplenishmentList devuelve los pares bajo punto de reorden con la cantidad
// sugerida de pedido y una prioridad por margen estimado y déficit.
// warehouseID 0 considera todas las bodegas.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, warehouseID int64) ([]dto.ReplenishmentSuggestionDTO, error) {
	var (
		products []*entity.Product
		balances []*entity.StockBalance
	)
	err := uc.tx.Snapshot(ctx, func(repos repository.Repositories) error {
		var err error
		if products, err = repos.Products.List(ctx); err != nil {
			return err
		}
		balances, err = repos.Stock.List(ctx, warehouseID)
		return err
	})
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	hundred := decimal.NewFromInt(100)
	ratio := decimal.RequireFromString("1.5")

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, b := range balances {
		p, ok := byID[b.SKUID]
		if !ok || !p.ReorderPoint.IsPositive() || !b.Quantity.LessThan(p.ReorderPoint) {
			continue
		}
		idealStock := p.ReorderPoint.Mul(ratio)
		suggestedQty := idealStock.Sub(b.Quantity)
		if suggestedQty.IsNegative() {
			suggestedQty = decimal.Zero
		}

		var grossMarginPct decimal.Decimal
		if p.Price.IsPositive() {
			grossMarginPct = p.Price.Sub(b.AvgCost).Div(p.Price).Mul(hundred).Round(2)
		}

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			SKUID:              b.SKUID,
			WarehouseID:        b.WarehouseID,
			SKU:                p.Code,
			ProductName:        p.Name,
			CurrentStock:       b.Quantity,
			ReorderPoint:       p.ReorderPoint,
			IdealStock:         idealStock,
			SuggestedOrderQty:  suggestedQty,
			UnitCost:           b.AvgCost,
			EstimatedOrderCost: suggestedQty.Mul(b.AvgCost),
			GrossMarginPct:     grossMarginPct,
		})
	}

	// Primero mayor margen, luego mayor déficit absoluto bajo el reorden.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		defA := a.ReorderPoint.Sub(a.CurrentStock)
		defB := b.ReorderPoint.Sub(b.CurrentStock)
		if !defA.Equal(defB) {
			return defA.GreaterThan(defB)
		}
		return a.SKUID < b.SKUID
	})

	// 1 = más urgente
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
