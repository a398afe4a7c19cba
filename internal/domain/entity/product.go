package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un SKU vendible/comprable. Los campos estáticos (código, precio) no cambian
// una vez que un movimiento del libro lo referencia.
type Product struct {
	ID           int64
	ProductID    int64  // producto padre (un producto puede tener varias variantes/SKU)
	Code         string // código único del SKU
	Name         string
	Price        decimal.Decimal // precio de venta de referencia
	ReorderPoint decimal.Decimal // punto de reorden para avisos de stock bajo
	CreatedAt    time.Time
}
