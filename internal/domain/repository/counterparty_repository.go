package repository

import (
	"context"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// CounterpartyRepository puerto de clientes y proveedores.
type CounterpartyRepository interface {
	Create(ctx context.Context, c *entity.Counterparty) error
	GetByID(ctx context.Context, id int64) (*entity.Counterparty, error)
	Exists(ctx context.Context, id int64) (bool, error)
}
