package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el saldo de un SKU en una bodega (cero si no hay fila).
func (r *StockRepo) Get(ctx context.Context, skuID, warehouseID int64) (*entity.StockBalance, error) {
	query := `
		SELECT sku_id, warehouse_id, quantity, avg_cost, updated_at
		FROM stock_balances WHERE sku_id = $1 AND warehouse_id = $2`
	var s entity.StockBalance
	err := r.q.QueryRow(ctx, query, skuID, warehouseID).Scan(
		&s.SKUID, &s.WarehouseID, &s.Quantity, &s.AvgCost, &s.UpdatedAt,
	)
	if err != nil {
		if noRows(err) {
			return zeroBalance(skuID, warehouseID), nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate bloquea la fila del par (SELECT FOR UPDATE). Si la fila no existe la crea
// en cero primero, para que el bloqueo también serialice el primer movimiento del par.
func (r *StockRepo) GetForUpdate(ctx context.Context, skuID, warehouseID int64) (*entity.StockBalance, error) {
	if _, err := r.q.Exec(ctx, `
		INSERT INTO stock_balances (sku_id, warehouse_id, quantity, avg_cost, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (sku_id, warehouse_id) DO NOTHING`, skuID, warehouseID); err != nil {
		return nil, fmt.Errorf("ensure stock row: %w", err)
	}
	query := `
		SELECT sku_id, warehouse_id, quantity, avg_cost, updated_at
		FROM stock_balances WHERE sku_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var s entity.StockBalance
	if err := r.q.QueryRow(ctx, query, skuID, warehouseID).Scan(
		&s.SKUID, &s.WarehouseID, &s.Quantity, &s.AvgCost, &s.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza el saldo del par.
func (r *StockRepo) Upsert(ctx context.Context, b *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (sku_id, warehouse_id, quantity, avg_cost, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (sku_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, avg_cost = EXCLUDED.avg_cost, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, b.SKUID, b.WarehouseID, b.Quantity, b.AvgCost, b.UpdatedAt); err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// List lista saldos (de una bodega si warehouseID != 0) ordenados por SKU y bodega.
func (r *StockRepo) List(ctx context.Context, warehouseID int64) ([]*entity.StockBalance, error) {
	query := `
		SELECT sku_id, warehouse_id, quantity, avg_cost, updated_at
		FROM stock_balances WHERE ($1::bigint = 0 OR warehouse_id = $1)
		ORDER BY sku_id, warehouse_id`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockBalance, 0)
	for rows.Next() {
		var s entity.StockBalance
		if err := rows.Scan(&s.SKUID, &s.WarehouseID, &s.Quantity, &s.AvgCost, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ReplaceAll reemplaza la tabla de saldos completa. Debe correr dentro de una tx.
func (r *StockRepo) ReplaceAll(ctx context.Context, balances []*entity.StockBalance) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_balances`); err != nil {
		return fmt.Errorf("clear stock: %w", err)
	}
	for _, b := range balances {
		if err := r.Upsert(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func zeroBalance(skuID, warehouseID int64) *entity.StockBalance {
	return &entity.StockBalance{SKUID: skuID, WarehouseID: warehouseID, Quantity: decimal.Zero, AvgCost: decimal.Zero}
}
