package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// WeightedAverageCost costo promedio ponderado tras una entrada.
// Nuevo = ((existencia * costo) + (cantEntrada * costoEntrada)) / (existencia + cantEntrada)
func WeightedAverageCost(onHand, currentCost, inQty, inCost decimal.Decimal) decimal.Decimal {
	sum := onHand.Add(inQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	// Con existencia negativa (backorder) el costo previo no aporta valor.
	if onHand.IsNegative() {
		return inCost
	}
	num := onHand.Mul(currentCost).Add(inQty.Mul(inCost))
	return num.Div(sum).Round(4)
}

// Fold aplica un movimiento al saldo: balance += quantity. Las entradas con costo
// recalculan el promedio; las salidas conservan el costo vigente.
// Es la única regla de plegado, compartida por el append incremental y el replay.
func Fold(balance *entity.StockBalance, entry *entity.MovementEntry) {
	if entry.Quantity.IsPositive() && entry.UnitCost.IsPositive() {
		balance.AvgCost = WeightedAverageCost(balance.Quantity, balance.AvgCost, entry.Quantity, entry.UnitCost)
	}
	balance.Quantity = balance.Quantity.Add(entry.Quantity)
	balance.UpdatedAt = entry.CreatedAt
}
