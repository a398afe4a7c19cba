package inventory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

func TestStockStore_ReserveReducesAvailable(t *testing.T) {
	f := newFixture(t, StoreOptions{})
	ctx := context.Background()
	f.record(t, f.sku, f.wh, "10", "5", entity.ReasonPurchaseReceipt)

	token, err := f.stock.Reserve(ctx, f.sku, f.wh, dec("6"))
	require.NoError(t, err)

	avail, err := f.stock.Available(ctx, f.sku, f.wh)
	require.NoError(t, err)
	assert.True(t, avail.Equal(dec("4")))

	_, err = f.stock.Reserve(ctx, f.sku, f.wh, dec("5"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	require.NoError(t, f.stock.Release(token))
	avail, _ = f.stock.Available(ctx, f.sku, f.wh)
	assert.True(t, avail.Equal(dec("10")))

	assert.ErrorIs(t, f.stock.Release(token), domain.ErrReservationNotFound)
	assert.ErrorIs(t, f.stock.Release("desconocido"), domain.ErrReservationNotFound)
}

func TestStockStore_ReservationExpires(t *testing.T) {
	f := newFixture(t, StoreOptions{ReservationTTL: time.Minute})
	ctx := context.Background()
	f.record(t, f.sku, f.wh, "5", "1", entity.ReasonPurchaseReceipt)

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	f.stock.now = func() time.Time { return now }

	token, err := f.stock.Reserve(ctx, f.sku, f.wh, dec("5"))
	require.NoError(t, err)
	_, err = f.stock.Reserve(ctx, f.sku, f.wh, dec("1"))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	now = now.Add(2 * time.Minute)
	avail, err := f.stock.Available(ctx, f.sku, f.wh)
	require.NoError(t, err)
	assert.True(t, avail.Equal(dec("5")))
	assert.ErrorIs(t, f.stock.Release(token), domain.ErrReservationNotFound)
}

func TestStockStore_ReserveAllRollsBackOnFailure(t *testing.T) {
	f := newFixture(t, StoreOptions{})
	ctx := context.Background()
	f.record(t, f.sku, f.wh, "5", "1", entity.ReasonPurchaseReceipt)
	f.record(t, f.sku2, f.wh, "1", "1", entity.ReasonPurchaseReceipt)

	_, err := f.stock.ReserveAll(ctx, []ReserveRequest{
		{SKUID: f.sku, WarehouseID: f.wh, Quantity: dec("5")},
		{SKUID: f.sku2, WarehouseID: f.wh, Quantity: dec("2")},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	avail, _ := f.stock.Available(ctx, f.sku, f.wh)
	assert.True(t, avail.Equal(dec("5")))
}

func TestStockStore_RejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t, StoreOptions{})
	_, err := f.stock.Reserve(context.Background(), f.sku, f.wh, dec("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockStore_ConcurrentReservesNeverOversell(t *testing.T) {
	f := newFixture(t, StoreOptions{})
	ctx := context.Background()
	f.record(t, f.sku, f.wh, "10", "1", entity.ReasonPurchaseReceipt)

	var granted, rejected int32
	var g errgroup.Group
	for i := 0; i < 25; i++ {
		g.Go(func() error {
			_, err := f.stock.Reserve(ctx, f.sku, f.wh, dec("1"))
			switch {
			case err == nil:
				atomic.AddInt32(&granted, 1)
			case errors.Is(err, domain.ErrInsufficientStock):
				atomic.AddInt32(&rejected, 1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(10), granted)
	assert.Equal(t, int32(15), rejected)
}

func TestStockStore_ConcurrentOutboundRecordsKeepBalanceNonNegative(t *testing.T) {
	f := newFixture(t, StoreOptions{})
	ctx := context.Background()
	f.record(t, f.sku, f.wh, "6", "2", entity.ReasonPurchaseReceipt)

	var ok int32
	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			_, err := f.ledger.Record(ctx, &entity.MovementEntry{SKUID: f.sku, WarehouseID: f.wh, Quantity: dec("-6"), Reason: entity.ReasonSaleShipment})
			if err == nil {
				atomic.AddInt32(&ok, 1)
				return nil
			}
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), ok)
	assert.True(t, f.balance(t, f.sku, f.wh).Quantity.IsZero())
}
