package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// OrderLineRequest línea de compra o venta.
type OrderLineRequest struct {
	SKUID     int64           `json:"sku_id" validate:"required,gt=0"`
	Quantity  decimal.Decimal `json:"quantity" validate:"decimal_gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"decimal_gte=0"`
}

// CreatePurchaseRequest body para POST /api/documents/purchase.
type CreatePurchaseRequest struct {
	SupplierID  int64              `json:"supplier_id" validate:"required,gt=0"`
	WarehouseID int64              `json:"warehouse_id" validate:"required,gt=0"`
	Remark      string             `json:"remark" validate:"max=500"`
	Items       []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateSaleRequest body para POST /api/documents/sale.
type CreateSaleRequest struct {
	CustomerID  int64              `json:"customer_id" validate:"required,gt=0"`
	WarehouseID int64              `json:"warehouse_id" validate:"required,gt=0"`
	Remark      string             `json:"remark" validate:"max=500"`
	Items       []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// ReturnLineRequest línea de devolución.
type ReturnLineRequest struct {
	SKUID          int64           `json:"sku_id" validate:"required,gt=0"`
	ReturnQuantity decimal.Decimal `json:"return_quantity" validate:"decimal_gte=1"`
	Price          decimal.Decimal `json:"price" validate:"decimal_gte=0.01"`
}

// CreateReturnRequest body para POST /api/documents/return. Type 0 = devolución de venta,
// 1 = devolución de compra.
type CreateReturnRequest struct {
	Type             int                 `json:"type" validate:"oneof=0 1"`
	CounterpartyID   int64               `json:"counterparty_id" validate:"required,gt=0"`
	WarehouseID      int64               `json:"warehouse_id" validate:"required,gt=0"`
	SourceDocumentID int64               `json:"source_document_id" validate:"gte=0"`
	Remark           string              `json:"remark" validate:"max=500"`
	Items            []ReturnLineRequest `json:"items" validate:"required,min=1,dive"`
}

// TakeLineRequest línea de toma física: cantidad contada.
type TakeLineRequest struct {
	SKUID           int64           `json:"sku_id" validate:"required,gt=0"`
	CountedQuantity decimal.Decimal `json:"counted_quantity" validate:"decimal_gte=0"`
}

// CreateTakeRequest body para POST /api/documents/take.
type CreateTakeRequest struct {
	WarehouseID int64             `json:"warehouse_id" validate:"required,gt=0"`
	Remark      string            `json:"remark" validate:"max=500"`
	Items       []TakeLineRequest `json:"items" validate:"required,min=1,unique=SKUID,dive"`
}

// TransferLineRequest línea de traslado.
type TransferLineRequest struct {
	SKUID    int64           `json:"sku_id" validate:"required,gt=0"`
	Quantity decimal.Decimal `json:"quantity" validate:"decimal_gt=0"`
}

// CreateTransferRequest body para POST /api/documents/transfer.
type CreateTransferRequest struct {
	FromWarehouseID int64                 `json:"from_warehouse_id" validate:"required,gt=0"`
	ToWarehouseID   int64                 `json:"to_warehouse_id" validate:"required,gt=0,nefield=FromWarehouseID"`
	Remark          string                `json:"remark" validate:"max=500"`
	Items           []TransferLineRequest `json:"items" validate:"required,min=1,dive"`
}

// DocumentLineResponse línea en respuestas.
type DocumentLineResponse struct {
	LineNo    int             `json:"line_no"`
	SKUID     int64           `json:"sku_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// DocumentResponse documento con líneas para GET /api/documents/:id.
type DocumentResponse struct {
	ID               int64                  `json:"id"`
	Type             string                 `json:"type"`
	ReturnKind       *int                   `json:"return_kind,omitempty"`
	Status           string                 `json:"status"`
	CounterpartyID   int64                  `json:"counterparty_id,omitempty"`
	WarehouseID      int64                  `json:"warehouse_id"`
	ToWarehouseID    int64                  `json:"to_warehouse_id,omitempty"`
	SourceDocumentID int64                  `json:"source_document_id,omitempty"`
	AccountID        int64                  `json:"account_id,omitempty"`
	Amount           decimal.Decimal        `json:"amount"`
	Remark           string                 `json:"remark,omitempty"`
	Lines            []DocumentLineResponse `json:"lines"`
	CreatedAt        time.Time              `json:"created_at"`
	ConfirmedAt      *time.Time             `json:"confirmed_at,omitempty"`
	FulfilledAt      *time.Time             `json:"fulfilled_at,omitempty"`
	CancelledAt      *time.Time             `json:"cancelled_at,omitempty"`
}

// ToDocumentResponse mapea un documento.
func ToDocumentResponse(d *entity.Document) DocumentResponse {
	out := DocumentResponse{
		ID:               d.ID,
		Type:             string(d.Type),
		Status:           string(d.Status),
		CounterpartyID:   d.CounterpartyID,
		WarehouseID:      d.WarehouseID,
		ToWarehouseID:    d.ToWarehouseID,
		SourceDocumentID: d.SourceDocumentID,
		AccountID:        d.AccountID,
		Amount:           d.Amount,
		Remark:           d.Remark,
		Lines:            make([]DocumentLineResponse, 0, len(d.Lines)),
		CreatedAt:        d.CreatedAt,
		ConfirmedAt:      d.ConfirmedAt,
		FulfilledAt:      d.FulfilledAt,
		CancelledAt:      d.CancelledAt,
	}
	if d.Type == entity.DocumentReturn {
		kind := int(d.ReturnKind)
		out.ReturnKind = &kind
	}
	for _, l := range d.Lines {
		out.Lines = append(out.Lines, DocumentLineResponse{LineNo: l.LineNo, SKUID: l.SKUID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return out
}
