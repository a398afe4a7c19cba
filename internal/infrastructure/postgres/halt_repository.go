package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
)

var _ repository.HaltRepository = (*HaltRepo)(nil)

// HaltRepo detenciones por inconsistencia sobre PostgreSQL.
type HaltRepo struct {
	q Querier
}

func NewHaltRepository(q Querier) *HaltRepo {
	return &HaltRepo{q: q}
}

func (r *HaltRepo) Put(ctx context.Context, h *entity.Halt) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO halts (scope, subject_id, warehouse_id, reason, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
		ON CONFLICT (scope, subject_id, warehouse_id) DO NOTHING`,
		string(h.Scope), h.SubjectID, h.WarehouseID, h.Reason, nullTime(h.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert halt: %w", err)
	}
	return nil
}

func (r *HaltRepo) Get(ctx context.Context, key entity.HaltKey) (*entity.Halt, error) {
	var h entity.Halt
	var scope string
	err := r.q.QueryRow(ctx, `
		SELECT scope, subject_id, warehouse_id, reason, created_at
		FROM halts WHERE scope = $1 AND subject_id = $2 AND warehouse_id = $3`,
		string(key.Scope), key.SubjectID, key.WarehouseID,
	).Scan(&scope, &h.SubjectID, &h.WarehouseID, &h.Reason, &h.CreatedAt)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get halt: %w", err)
	}
	h.Scope = entity.HaltScope(scope)
	return &h, nil
}

func (r *HaltRepo) List(ctx context.Context, scopes ...entity.HaltScope) ([]*entity.Halt, error) {
	rows, err := r.q.Query(ctx, `
		SELECT scope, subject_id, warehouse_id, reason, created_at
		FROM halts
		WHERE cardinality($1::text[]) = 0 OR scope = ANY($1::text[])
		ORDER BY scope, subject_id, warehouse_id`, scopeNames(scopes))
	if err != nil {
		return nil, fmt.Errorf("list halts: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.Halt, 0)
	for rows.Next() {
		var h entity.Halt
		var scope string
		if err := rows.Scan(&scope, &h.SubjectID, &h.WarehouseID, &h.Reason, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan halt: %w", err)
		}
		h.Scope = entity.HaltScope(scope)
		out = append(out, &h)
	}
	return out, rows.Err()
}

func (r *HaltRepo) Clear(ctx context.Context, scopes ...entity.HaltScope) (int, error) {
	tag, err := r.q.Exec(ctx, `
		DELETE FROM halts WHERE cardinality($1::text[]) = 0 OR scope = ANY($1::text[])`, scopeNames(scopes))
	if err != nil {
		return 0, fmt.Errorf("clear halts: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scopeNames(scopes []entity.HaltScope) []string {
	out := make([]string, 0, len(scopes))
	for _, s := range scopes {
		out = append(out, string(s))
	}
	return out
}
