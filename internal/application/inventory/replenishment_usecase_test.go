package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

func TestReplenishment_ListsPairsBelowReorderPoint(t *testing.T) {
	f := newFixture(t, StoreOptions{})
	// SKU-1: reorden 10, precio 8; SKU-2: reorden 4, precio 2
	f.record(t, f.sku, f.wh, "4", "5", entity.ReasonPurchaseReceipt)
	f.record(t, f.sku, f.wh2, "20", "5", entity.ReasonPurchaseReceipt)
	f.record(t, f.sku2, f.wh, "1", "1", entity.ReasonPurchaseReceipt)

	uc := NewReplenishmentUseCase(f.db)
	list, err := uc.GenerateReplenishmentList(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// margen SKU-2 = 50% > SKU-1 = 37.5%
	assert.Equal(t, f.sku2, list[0].SKUID)
	assert.Equal(t, 1, list[0].Priority)
	assert.True(t, list[0].SuggestedOrderQty.Equal(dec("5")), list[0].SuggestedOrderQty.String())

	assert.Equal(t, f.sku, list[1].SKUID)
	assert.Equal(t, f.wh, list[1].WarehouseID)
	assert.True(t, list[1].IdealStock.Equal(dec("15")))
	assert.True(t, list[1].SuggestedOrderQty.Equal(dec("11")))
	assert.True(t, list[1].EstimatedOrderCost.Equal(dec("55")))

	onlyNorth, err := uc.GenerateReplenishmentList(context.Background(), f.wh2)
	require.NoError(t, err)
	assert.Empty(t, onlyNorth)
}
