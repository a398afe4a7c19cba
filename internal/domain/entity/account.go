package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType lado de la cuenta: por cobrar (1) o por pagar (2).
type AccountType int

const (
	AccountReceivable AccountType = 1
	AccountPayable    AccountType = 2
)

// Valid indica si el tipo es 1 o 2.
func (t AccountType) Valid() bool {
	return t == AccountReceivable || t == AccountPayable
}

// Opposite devuelve el otro lado.
func (t AccountType) Opposite() AccountType {
	if t == AccountReceivable {
		return AccountPayable
	}
	return AccountReceivable
}

func (t AccountType) String() string {
	switch t {
	case AccountReceivable:
		return "receivable"
	case AccountPayable:
		return "payable"
	}
	return "unknown"
}

// Estados de una cuenta. El cierre es implícito al llegar el saldo a cero.
const (
	AccountOpen   = "open"
	AccountClosed = "closed"
	AccountVoid   = "void"
)

// Account saldo por cobrar/pagar registrado al confirmar un documento.
type Account struct {
	ID             int64
	Type           AccountType
	CounterpartyID int64
	DocumentType   DocumentType
	DocumentID     int64
	Amount         decimal.Decimal // monto original
	Adjusted       decimal.Decimal // notas crédito por devoluciones
	Settled        decimal.Decimal // suma de liquidaciones aplicadas
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Outstanding saldo pendiente = monto - ajustes - liquidado.
func (a *Account) Outstanding() decimal.Decimal {
	if a.Status == AccountVoid {
		return decimal.Zero
	}
	return a.Amount.Sub(a.Adjusted).Sub(a.Settled)
}

// Refresh recalcula el estado abierto/cerrado a partir del saldo pendiente.
func (a *Account) Refresh(now time.Time) {
	if a.Status != AccountVoid {
		if a.Outstanding().IsPositive() {
			a.Status = AccountOpen
		} else {
			a.Status = AccountClosed
		}
	}
	a.UpdatedAt = now
}

// AccountAdjustment ajuste inmutable sobre una cuenta (nota crédito de una devolución o su reverso).
type AccountAdjustment struct {
	ID         int64
	AccountID  int64
	DocumentID int64
	Amount     decimal.Decimal // positivo reduce el saldo, negativo lo restituye
	CreatedAt  time.Time
}
