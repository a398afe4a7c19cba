package repository

import (
	"context"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// FinancialRecordRepository puerto de recibos/pagos. Create existe para el colaborador
// externo que los produce; el núcleo solo asigna.
type FinancialRecordRepository interface {
	Create(ctx context.Context, record *entity.FinancialRecord) error
	GetByID(ctx context.Context, id int64) (*entity.FinancialRecord, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.FinancialRecord, error)
	Update(ctx context.Context, record *entity.FinancialRecord) error
	List(ctx context.Context) ([]*entity.FinancialRecord, error)
}
