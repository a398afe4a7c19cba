package repository

import (
	"context"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// StockRepository puerto de saldos por SKU+bodega. Usado dentro de transacciones
// por el libro; el resto del sistema solo lee.
type StockRepository interface {
	// Get devuelve el saldo (cero si no existe la fila).
	Get(ctx context.Context, skuID, warehouseID int64) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila para el plegado (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, skuID, warehouseID int64) (*entity.StockBalance, error)
	Upsert(ctx context.Context, balance *entity.StockBalance) error
	List(ctx context.Context, warehouseID int64) ([]*entity.StockBalance, error)
	// ReplaceAll reemplaza todos los saldos (reconstrucción desde el libro).
	ReplaceAll(ctx context.Context, balances []*entity.StockBalance) error
}
