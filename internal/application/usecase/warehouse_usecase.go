package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-erp/internal/application/dto"
	"github.com/jhoicas/inventario-erp/internal/application/ports"
	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
	"github.com/jhoicas/inventario-erp/pkg/validator"
)

// WarehouseUseCase alta y consulta de bodegas.
type WarehouseUseCase struct {
	tx ports.TxRunner
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(tx ports.TxRunner) *WarehouseUseCase {
	return &WarehouseUseCase{tx: tx}
}

// Create crea una nueva bodega.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}
	warehouse := &entity.Warehouse{Name: in.Name, Address: in.Address, CreatedAt: time.Now()}
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		return repos.Warehouses.Create(ctx, warehouse)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToWarehouseResponse(warehouse)
	return &out, nil
}

// GetByID obtiene una bodega por ID (ErrNotFound si no existe).
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id int64) (*dto.WarehouseResponse, error) {
	var warehouse *entity.Warehouse
	err := uc.tx.Snapshot(ctx, func(repos repository.Repositories) error {
		var err error
		warehouse, err = repos.Warehouses.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToWarehouseResponse(warehouse)
	return &out, nil
}
