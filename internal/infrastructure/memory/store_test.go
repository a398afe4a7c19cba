package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
)

func TestStore_RunCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Products.Create(ctx, &entity.Product{Code: "A-1", Name: "Tornillo"}); err != nil {
			return err
		}
		return repos.Movements.Append(ctx, &entity.MovementEntry{SKUID: 1, WarehouseID: 1, Quantity: decimal.NewFromInt(3)})
	})
	require.NoError(t, err)

	ok, err := s.Repositories().Products.Exists(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	entries, err := s.Repositories().Movements.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_RunDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")

	err := s.Run(ctx, func(repos repository.Repositories) error {
		_ = repos.Warehouses.Create(ctx, &entity.Warehouse{Name: "Central"})
		_ = repos.Stock.Upsert(ctx, &entity.StockBalance{SKUID: 1, WarehouseID: 1, Quantity: decimal.NewFromInt(5)})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	ok, err := s.Repositories().Warehouses.Exists(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	bal, err := s.Repositories().Stock.Get(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, bal.Quantity.IsZero())
}

func TestStore_AppendAfterRollbackDoesNotLeak(t *testing.T) {
	ctx := context.Background()
	s := New()
	repos := s.Repositories()
	require.NoError(t, repos.Movements.Append(ctx, &entity.MovementEntry{SKUID: 1, WarehouseID: 1, Quantity: decimal.NewFromInt(1)}))

	_ = s.Run(ctx, func(tx repository.Repositories) error {
		_ = tx.Movements.Append(ctx, &entity.MovementEntry{SKUID: 9, WarehouseID: 9, Quantity: decimal.NewFromInt(9)})
		return errors.New("rollback")
	})
	require.NoError(t, repos.Movements.Append(ctx, &entity.MovementEntry{SKUID: 2, WarehouseID: 1, Quantity: decimal.NewFromInt(2)}))

	entries, err := repos.Movements.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[1].SKUID)
	assert.Equal(t, int64(2), entries[1].ID)
}

func TestStore_SnapshotIsReadOnly(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.Snapshot(ctx, func(repos repository.Repositories) error {
		return repos.Products.Create(ctx, &entity.Product{Code: "X"})
	})
	assert.ErrorIs(t, err, errReadOnly)
}

func TestStore_ReturnedEntitiesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	repos := s.Repositories()

	doc := &entity.Document{Type: entity.DocumentSale, Status: entity.StatusDraft,
		Lines: []entity.DocumentLine{{SKUID: 1, Quantity: decimal.NewFromInt(1)}}}
	require.NoError(t, repos.Documents.Create(ctx, doc))
	doc.Lines[0].Quantity = decimal.NewFromInt(99)

	got, err := repos.Documents.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, got.Lines[0].Quantity.Equal(decimal.NewFromInt(1)))

	missing, err := repos.Documents.GetByID(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = repos.Documents.Update(ctx, &entity.Document{ID: 404})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_TxHookWrapsRepositories(t *testing.T) {
	ctx := context.Background()
	s := New()
	injected := errors.New("disco lleno")
	s.SetTxHook(func(r repository.Repositories) repository.Repositories {
		r.Stock = failingStock{StockRepository: r.Stock, err: injected}
		return r
	})

	err := s.Run(ctx, func(repos repository.Repositories) error {
		return repos.Stock.Upsert(ctx, &entity.StockBalance{SKUID: 1, WarehouseID: 1})
	})
	assert.ErrorIs(t, err, injected)
}

type failingStock struct {
	repository.StockRepository
	err error
}

func (f failingStock) Upsert(context.Context, *entity.StockBalance) error { return f.err }
