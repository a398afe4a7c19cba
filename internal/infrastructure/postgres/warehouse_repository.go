package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persiste una nueva bodega.
func (r *WarehouseRepo) Create(ctx context.Context, warehouse *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (name, address, created_at)
		VALUES ($1, $2, COALESCE($3, now()))
		RETURNING id, created_at`
	if err := r.q.QueryRow(ctx, query, warehouse.Name, warehouse.Address, nullTime(warehouse.CreatedAt)).
		Scan(&warehouse.ID, &warehouse.CreatedAt); err != nil {
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetByID obtiene una bodega por ID. Devuelve nil si no existe.
func (r *WarehouseRepo) GetByID(ctx context.Context, id int64) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, `SELECT id, name, address, created_at FROM warehouses WHERE id = $1`, id).
		Scan(&w.ID, &w.Name, &w.Address, &w.CreatedAt)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

func (r *WarehouseRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM warehouses WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists warehouse: %w", err)
	}
	return ok, nil
}
