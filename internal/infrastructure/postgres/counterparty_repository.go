package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
)

var _ repository.CounterpartyRepository = (*CounterpartyRepo)(nil)

// CounterpartyRepo clientes y proveedores sobre PostgreSQL.
type CounterpartyRepo struct {
	q Querier
}

func NewCounterpartyRepository(q Querier) *CounterpartyRepo {
	return &CounterpartyRepo{q: q}
}

func (r *CounterpartyRepo) Create(ctx context.Context, c *entity.Counterparty) error {
	query := `
		INSERT INTO counterparties (kind, name, tax_id, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
		RETURNING id, created_at`
	if err := r.q.QueryRow(ctx, query, c.Kind, c.Name, c.TaxID, nullTime(c.CreatedAt)).
		Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("insert counterparty: %w", err)
	}
	return nil
}

func (r *CounterpartyRepo) GetByID(ctx context.Context, id int64) (*entity.Counterparty, error) {
	var c entity.Counterparty
	err := r.q.QueryRow(ctx, `SELECT id, kind, name, tax_id, created_at FROM counterparties WHERE id = $1`, id).
		Scan(&c.ID, &c.Kind, &c.Name, &c.TaxID, &c.CreatedAt)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get counterparty: %w", err)
	}
	return &c, nil
}

func (r *CounterpartyRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM counterparties WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists counterparty: %w", err)
	}
	return ok, nil
}
