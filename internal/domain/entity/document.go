package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType tipo de documento de negocio.
type DocumentType string

// Tipos de documento.
const (
	DocumentPurchase DocumentType = "purchase"
	DocumentSale     DocumentType = "sale"
	DocumentReturn   DocumentType = "return"
	DocumentTake     DocumentType = "take"
	DocumentTransfer DocumentType = "transfer"
)

// Valid indica si el tipo es conocido.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentPurchase, DocumentSale, DocumentReturn, DocumentTake, DocumentTransfer:
		return true
	}
	return false
}

// DocumentStatus estado del ciclo de vida.
type DocumentStatus string

// Estados: draft -> confirmed -> (fulfilled | cancelled).
const (
	StatusDraft     DocumentStatus = "draft"
	StatusConfirmed DocumentStatus = "confirmed"
	StatusFulfilled DocumentStatus = "fulfilled"
	StatusCancelled DocumentStatus = "cancelled"
)

// ReturnKind discrimina devoluciones de venta (0) y de compra (1).
type ReturnKind int

const (
	ReturnSale     ReturnKind = 0
	ReturnPurchase ReturnKind = 1
)

// Document cabecera de un documento (compra, venta, devolución, toma física o traslado).
// Es dueño exclusivo de sus líneas.
type Document struct {
	ID               int64
	Type             DocumentType
	ReturnKind       ReturnKind // solo para DocumentReturn
	Status           DocumentStatus
	CounterpartyID   int64 // 0 para toma física y traslado
	WarehouseID      int64 // bodega (origen en traslados)
	ToWarehouseID    int64 // destino, solo traslados
	SourceDocumentID int64 // documento original de una devolución (opcional)
	AccountID        int64 // cuenta registrada al confirmar (0 si no aplica)
	Amount           decimal.Decimal
	Remark           string
	Lines            []DocumentLine
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ConfirmedAt      *time.Time
	FulfilledAt      *time.Time
	CancelledAt      *time.Time
}

// DocumentLine línea de un documento. En tomas físicas Quantity es la cantidad contada.
type DocumentLine struct {
	ID         int64
	DocumentID int64
	LineNo     int
	SKUID      int64
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
}

// Total suma quantity * unit_price de todas las líneas.
func (d *Document) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.Quantity.Mul(l.UnitPrice))
	}
	return total
}
