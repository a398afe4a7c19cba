package repository

import (
	"context"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// AccountFilter filtros de cuentas. Los campos en cero no filtran.
type AccountFilter struct {
	Type           entity.AccountType
	CounterpartyID int64
	OnlyOpen       bool
}

// AccountRepository puerto de cuentas por cobrar/pagar.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id int64) (*entity.Account, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Account, error)
	Update(ctx context.Context, account *entity.Account) error
	// List ordena por fecha de creación e ID ascendentes (las más antiguas primero).
	List(ctx context.Context, filter AccountFilter) ([]*entity.Account, error)

	AddAdjustment(ctx context.Context, adj *entity.AccountAdjustment) error
	ListAdjustmentsByDocument(ctx context.Context, documentID int64) ([]*entity.AccountAdjustment, error)
}
