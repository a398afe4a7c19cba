package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/inventory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWeightedAverageCost(t *testing.T) {
	// 10 u a 5.00 + 10 u a 7.00 => 6.00
	got := inventory.WeightedAverageCost(dec("10"), dec("5"), dec("10"), dec("7"))
	assert.True(t, got.Equal(dec("6")), "got %s", got)

	// sin existencia previa el costo es el de la entrada
	got = inventory.WeightedAverageCost(decimal.Zero, decimal.Zero, dec("3"), dec("2.5"))
	assert.True(t, got.Equal(dec("2.5")), "got %s", got)
}

func TestFold_EntradasYSalidas(t *testing.T) {
	now := time.Now()
	bal := &entity.StockBalance{SKUID: 1, WarehouseID: 1}

	inventory.Fold(bal, &entity.MovementEntry{Quantity: dec("10"), UnitCost: dec("5"), CreatedAt: now})
	inventory.Fold(bal, &entity.MovementEntry{Quantity: dec("-4"), UnitCost: dec("8"), CreatedAt: now})

	assert.True(t, bal.Quantity.Equal(dec("6")))
	assert.True(t, bal.AvgCost.Equal(dec("5")), "la salida no altera el costo promedio")
}
