package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-erp/pkg/logger"
)

type fixture struct {
	db     *memory.Store
	stock  *StockStore
	ledger *Ledger
	sku    int64
	sku2   int64
	wh     int64
	wh2    int64
}

func newFixture(t *testing.T, opts StoreOptions) *fixture {
	t.Helper()
	ctx := context.Background()
	db := memory.New()
	repos := db.Repositories()

	p1 := &entity.Product{Code: "SKU-1", Name: "Tornillo", Price: decimal.NewFromInt(8), ReorderPoint: decimal.NewFromInt(10)}
	p2 := &entity.Product{Code: "SKU-2", Name: "Tuerca", Price: decimal.NewFromInt(2), ReorderPoint: decimal.NewFromInt(4)}
	require.NoError(t, repos.Products.Create(ctx, p1))
	require.NoError(t, repos.Products.Create(ctx, p2))
	w1 := &entity.Warehouse{Name: "Central"}
	w2 := &entity.Warehouse{Name: "Norte"}
	require.NoError(t, repos.Warehouses.Create(ctx, w1))
	require.NoError(t, repos.Warehouses.Create(ctx, w2))

	stock := NewStockStore(repos, opts, nil, logger.Nop())
	return &fixture{
		db:     db,
		stock:  stock,
		ledger: NewLedger(db, stock, nil, nil, logger.Nop()),
		sku:    p1.ID,
		sku2:   p2.ID,
		wh:     w1.ID,
		wh2:    w2.ID,
	}
}

func (f *fixture) record(t *testing.T, sku, wh int64, qty, cost string, reason entity.MovementReason) int64 {
	t.Helper()
	id, err := f.ledger.Record(context.Background(), &entity.MovementEntry{
		SKUID:       sku,
		WarehouseID: wh,
		Quantity:    decimal.RequireFromString(qty),
		UnitCost:    decimal.RequireFromString(cost),
		Reason:      reason,
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) balance(t *testing.T, sku, wh int64) *entity.StockBalance {
	t.Helper()
	bal, err := f.stock.GetBalance(context.Background(), sku, wh)
	require.NoError(t, err)
	return bal
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
