package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// SettleRequest body para POST /api/settlements.
type SettleRequest struct {
	AccountType      int             `json:"account_type" validate:"required,oneof=1 2"`
	AccountID        int64           `json:"account_id" validate:"required,gt=0"`
	FinancialID      int64           `json:"financial_id" validate:"required,gt=0"`
	SettlementAmount decimal.Decimal `json:"settlement_amount" validate:"decimal_gt=0"`
	SettlementDate   string          `json:"settlement_date" validate:"required,datetime=2006-01-02"`
	Remark           string          `json:"remark" validate:"max=500"`
}

// SettlementResponse liquidación aplicada.
type SettlementResponse struct {
	ID               int64           `json:"id"`
	AccountType      int             `json:"account_type"`
	AccountID        int64           `json:"account_id"`
	FinancialID      int64           `json:"financial_id"`
	SettlementAmount decimal.Decimal `json:"settlement_amount"`
	SettlementDate   string          `json:"settlement_date"`
	Remark           string          `json:"remark,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// AccountResponse cuenta por cobrar/pagar (candidata a liquidación).
type AccountResponse struct {
	ID             int64           `json:"id"`
	AccountType    int             `json:"account_type"`
	CounterpartyID int64           `json:"counterparty_id"`
	DocumentType   string          `json:"document_type"`
	DocumentID     int64           `json:"document_id"`
	Amount         decimal.Decimal `json:"amount"`
	Adjusted       decimal.Decimal `json:"adjusted"`
	Settled        decimal.Decimal `json:"settled"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CandidatesQuery filtros de GET /api/settlements/candidates.
type CandidatesQuery struct {
	AccountType    int   `query:"account_type" validate:"required,oneof=1 2"`
	CounterpartyID int64 `query:"counterparty_id" validate:"gte=0"`
}

// ToSettlementResponse mapea una liquidación.
func ToSettlementResponse(e *entity.SettlementEntry) SettlementResponse {
	return SettlementResponse{
		ID:               e.ID,
		AccountType:      int(e.AccountType),
		AccountID:        e.AccountID,
		FinancialID:      e.FinancialID,
		SettlementAmount: e.SettlementAmount,
		SettlementDate:   e.SettlementDate.Format("2006-01-02"),
		Remark:           e.Remark,
		CreatedAt:        e.CreatedAt,
	}
}

// ToAccountResponse mapea una cuenta.
func ToAccountResponse(a *entity.Account) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		AccountType:    int(a.Type),
		CounterpartyID: a.CounterpartyID,
		DocumentType:   string(a.DocumentType),
		DocumentID:     a.DocumentID,
		Amount:         a.Amount,
		Adjusted:       a.Adjusted,
		Settled:        a.Settled,
		Outstanding:    a.Outstanding(),
		Status:         a.Status,
		CreatedAt:      a.CreatedAt,
	}
}
