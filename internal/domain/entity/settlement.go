package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementEntry vincula un registro financiero con una cuenta pendiente. Inmutable.
type SettlementEntry struct {
	ID               int64
	AccountType      AccountType
	AccountID        int64
	FinancialID      int64
	SettlementAmount decimal.Decimal
	SettlementDate   time.Time
	Remark           string
	CreatedAt        time.Time
}
