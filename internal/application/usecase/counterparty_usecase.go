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

// CounterpartyUseCase alta y consulta de clientes y proveedores.
type CounterpartyUseCase struct {
	tx ports.TxRunner
}

func NewCounterpartyUseCase(tx ports.TxRunner) *CounterpartyUseCase {
	return &CounterpartyUseCase{tx: tx}
}

func (uc *CounterpartyUseCase) Create(ctx context.Context, in dto.CreateCounterpartyRequest) (*dto.CounterpartyResponse, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}
	c := &entity.Counterparty{Kind: in.Kind, Name: in.Name, TaxID: in.TaxID, CreatedAt: time.Now()}
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		return repos.Counterparties.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToCounterpartyResponse(c)
	return &out, nil
}

func (uc *CounterpartyUseCase) GetByID(ctx context.Context, id int64) (*dto.CounterpartyResponse, error) {
	var c *entity.Counterparty
	err := uc.tx.Snapshot(ctx, func(repos repository.Repositories) error {
		var err error
		c, err = repos.Counterparties.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToCounterpartyResponse(c)
	return &out, nil
}
