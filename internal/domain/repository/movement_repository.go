package repository

import (
	"context"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// MovementFilter filtros para listar el libro. Los campos en cero no filtran.
type MovementFilter struct {
	SKUID       int64
	WarehouseID int64
	DocumentID  int64
	Limit       int
	Offset      int
}

// MovementRepository puerto del libro de movimientos. Solo admite inserciones.
type MovementRepository interface {
	// Append persiste el movimiento y asigna ID (creciente).
	Append(ctx context.Context, entry *entity.MovementEntry) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.MovementEntry, error)
	// Scan recorre todo el libro en orden de ID (para replay).
	Scan(ctx context.Context, fn func(entry *entity.MovementEntry) error) error
}
