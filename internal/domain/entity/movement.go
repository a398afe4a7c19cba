package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementReason motivo de un movimiento del libro de inventario.
type MovementReason string

// Motivos de movimiento (enumeración cerrada).
const (
	ReasonPurchaseReceipt MovementReason = "purchase-receipt"
	ReasonSaleShipment    MovementReason = "sale-shipment"
	ReasonReturnIn        MovementReason = "return-in"
	ReasonReturnOut       MovementReason = "return-out"
	ReasonTransferIn      MovementReason = "transfer-in"
	ReasonTransferOut     MovementReason = "transfer-out"
	ReasonTakeAdjustment  MovementReason = "take-adjustment"
)

// Valid indica si el motivo pertenece a la enumeración.
func (r MovementReason) Valid() bool {
	switch r {
	case ReasonPurchaseReceipt, ReasonSaleShipment, ReasonReturnIn, ReasonReturnOut,
		ReasonTransferIn, ReasonTransferOut, ReasonTakeAdjustment:
		return true
	}
	return false
}

// MovementEntry hecho inmutable del libro. Solo se agrega; las correcciones son
// movimientos compensatorios.
type MovementEntry struct {
	ID                 int64
	SKUID              int64
	WarehouseID        int64
	Quantity           decimal.Decimal // con signo: positivo entrada, negativo salida
	UnitCost           decimal.Decimal
	Reason             MovementReason
	SourceDocumentType DocumentType
	SourceDocumentID   int64
	TxRef              string // agrupa los movimientos de una misma transición (ej. par de traslado)
	CreatedAt          time.Time
}
