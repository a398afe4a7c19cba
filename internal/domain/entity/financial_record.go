package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de un registro financiero.
const (
	DirectionReceipt = "receipt"
	DirectionPayment = "payment"
)

// Estados de un registro financiero.
const (
	FinancialOpen   = "open"
	FinancialClosed = "closed"
)

// FinancialRecord recibo o pago producido por un colaborador externo.
// El núcleo solo asigna su monto contra cuentas pendientes.
type FinancialRecord struct {
	ID                int64
	AccountType       AccountType
	Direction         string
	Amount            decimal.Decimal
	Allocated         decimal.Decimal
	Status            string
	RelatedDocumentID int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Unallocated monto aún no asignado.
func (f *FinancialRecord) Unallocated() decimal.Decimal {
	return f.Amount.Sub(f.Allocated)
}

// Refresh recalcula el estado a partir del remanente.
func (f *FinancialRecord) Refresh(now time.Time) {
	if f.Unallocated().IsPositive() {
		f.Status = FinancialOpen
	} else {
		f.Status = FinancialClosed
	}
	f.UpdatedAt = now
}
