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

// ProductUseCase alta y consulta de SKU. Saldo y costo se manejan solo vía el libro de movimientos.
type ProductUseCase struct {
	tx ports.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(tx ports.TxRunner) *ProductUseCase {
	return &ProductUseCase{tx: tx}
}

// Create crea un nuevo SKU. El código es único (ErrDuplicate).
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}
	product := &entity.Product{
		ProductID:    in.ProductID,
		Code:         in.Code,
		Name:         in.Name,
		Price:        in.Price,
		ReorderPoint: in.ReorderPoint,
		CreatedAt:    time.Now(),
	}
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		return repos.Products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// GetByID obtiene un SKU por ID (ErrNotFound si no existe).
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.tx.Snapshot(ctx, func(repos repository.Repositories) error {
		var err error
		product, err = repos.Products.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// List devuelve el catálogo ordenado por ID.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	var products []*entity.Product
	err := uc.tx.Snapshot(ctx, func(repos repository.Repositories) error {
		var err error
		products, err = repos.Products.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ToProductResponse(p))
	}
	return out, nil
}
