package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// StockBalanceDTO saldo de un par (SKU, bodega) con su disponible.
type StockBalanceDTO struct {
	SKUID       int64           `json:"sku_id"`
	WarehouseID int64           `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Available   decimal.Decimal `json:"available"`
	AvgCost     decimal.Decimal `json:"avg_cost"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MovementDTO movimiento del libro.
type MovementDTO struct {
	ID                 int64           `json:"id"`
	SKUID              int64           `json:"sku_id"`
	WarehouseID        int64           `json:"warehouse_id"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	Reason             string          `json:"reason"`
	SourceDocumentType string          `json:"source_document_type"`
	SourceDocumentID   int64           `json:"source_document_id"`
	TxRef              string          `json:"tx_ref"`
	CreatedAt          time.Time       `json:"created_at"`
}

// MovementListQuery filtros de GET /api/ledger/movements.
type MovementListQuery struct {
	SKUID       int64 `query:"sku_id" validate:"gte=0"`
	WarehouseID int64 `query:"warehouse_id" validate:"gte=0"`
	DocumentID  int64 `query:"document_id" validate:"gte=0"`
	PageRequest
}

// BalanceQuery parámetros de GET /api/stock/balance.
type BalanceQuery struct {
	SKUID       int64 `query:"sku_id" validate:"required,gt=0"`
	WarehouseID int64 `query:"warehouse_id" validate:"required,gt=0"`
}

// WarningsQuery parámetros de GET /api/stock/warnings. Sin bodega se listan todas.
type WarningsQuery struct {
	WarehouseID int64 `query:"warehouse_id" validate:"gte=0"`
}

// ToMovementDTO mapea una entrada del libro.
func ToMovementDTO(e *entity.MovementEntry) MovementDTO {
	return MovementDTO{
		ID:                 e.ID,
		SKUID:              e.SKUID,
		WarehouseID:        e.WarehouseID,
		Quantity:           e.Quantity,
		UnitCost:           e.UnitCost,
		Reason:             string(e.Reason),
		SourceDocumentType: string(e.SourceDocumentType),
		SourceDocumentID:   e.SourceDocumentID,
		TxRef:              e.TxRef,
		CreatedAt:          e.CreatedAt,
	}
}

// ReplenishmentSuggestionDTO representa una sugerencia de reposición para un SKU
// que se encuentra por debajo de su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	SKUID              int64           `json:"sku_id"`
	WarehouseID        int64           `json:"warehouse_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	ReorderPoint       decimal.Decimal `json:"reorder_point"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // ReorderPoint * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	GrossMarginPct     decimal.Decimal `json:"gross_margin_pct"`     // (precio - costo) / precio
	Priority           int             `json:"priority"`             // 1 = más urgente
}
