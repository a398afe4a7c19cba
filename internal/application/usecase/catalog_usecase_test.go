package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-erp/internal/application/dto"
	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/infrastructure/memory"
)

func TestProductUseCase_CreateAndList(t *testing.T) {
	ctx := context.Background()
	uc := NewProductUseCase(memory.New())

	p, err := uc.Create(ctx, dto.CreateProductRequest{Code: "A-1", Name: "Tornillo", Price: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "A-1", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "Sin código"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Tornillo", list[0].Name)

	_, err = uc.GetByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWarehouseAndCounterpartyUseCases(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	w, err := NewWarehouseUseCase(store).Create(ctx, dto.CreateWarehouseRequest{Name: "Principal"})
	require.NoError(t, err)
	got, err := NewWarehouseUseCase(store).GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Principal", got.Name)

	cps := NewCounterpartyUseCase(store)
	_, err = cps.Create(ctx, dto.CreateCounterpartyRequest{Kind: "partner", Name: "X"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "kind", verr.Fields[0].Field)

	c, err := cps.Create(ctx, dto.CreateCounterpartyRequest{Kind: "customer", Name: "Cliente"})
	require.NoError(t, err)
	got2, err := cps.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "customer", got2.Kind)
}
