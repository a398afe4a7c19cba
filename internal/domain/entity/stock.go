package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockKey identifica un par (SKU, bodega).
type StockKey struct {
	SKUID       int64
	WarehouseID int64
}

// StockBalance saldo derivado de un SKU en una bodega. Nunca se edita directamente:
// solo se recalcula al plegar movimientos del libro.
type StockBalance struct {
	SKUID       int64
	WarehouseID int64
	Quantity    decimal.Decimal
	AvgCost     decimal.Decimal // costo promedio ponderado de las entradas
	UpdatedAt   time.Time
}

// Key devuelve la clave del par.
func (s StockBalance) Key() StockKey {
	return StockKey{SKUID: s.SKUID, WarehouseID: s.WarehouseID}
}
