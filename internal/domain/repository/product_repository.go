package repository

import (
	"context"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// ProductRepository puerto del catálogo de SKU.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// List devuelve el catálogo ordenado por ID.
	List(ctx context.Context) ([]*entity.Product, error)
}
