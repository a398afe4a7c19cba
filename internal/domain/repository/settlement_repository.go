package repository

import (
	"context"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// SettlementRepository puerto de liquidaciones. Solo inserciones.
type SettlementRepository interface {
	Create(ctx context.Context, entry *entity.SettlementEntry) error
	ListByAccount(ctx context.Context, accountID int64) ([]*entity.SettlementEntry, error)
	ListByFinancial(ctx context.Context, financialID int64) ([]*entity.SettlementEntry, error)
}
