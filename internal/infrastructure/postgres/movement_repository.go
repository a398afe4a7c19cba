package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx). Solo INSERT.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, sku_id, warehouse_id, quantity, unit_cost, reason,
	source_document_type, source_document_id, tx_ref, created_at`

// Append persiste un movimiento y asigna su ID.
func (r *MovementRepo) Append(ctx context.Context, m *entity.MovementEntry) error {
	query := `
		INSERT INTO movements (sku_id, warehouse_id, quantity, unit_cost, reason,
			source_document_type, source_document_id, tx_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.SKUID, m.WarehouseID, m.Quantity, m.UnitCost, string(m.Reason),
		string(m.SourceDocumentType), m.SourceDocumentID, m.TxRef, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// List lista movimientos filtrados en orden de ID.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.MovementEntry, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1 = 1`
	var args []any
	pos := 1
	if f.SKUID != 0 {
		query += fmt.Sprintf(" AND sku_id = $%d", pos)
		args = append(args, f.SKUID)
		pos++
	}
	if f.WarehouseID != 0 {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, f.WarehouseID)
		pos++
	}
	if f.DocumentID != 0 {
		query += fmt.Sprintf(" AND source_document_id = $%d", pos)
		args = append(args, f.DocumentID)
		pos++
	}
	var limit any
	if f.Limit > 0 {
		limit = f.Limit
	}
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.MovementEntry, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Scan recorre el libro completo en orden de ID.
func (r *MovementRepo) Scan(ctx context.Context, fn func(entry *entity.MovementEntry) error) error {
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+` FROM movements ORDER BY id`)
	if err != nil {
		return fmt.Errorf("scan movements: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return err
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return rows.Err()
}

func scanMovement(rows pgx.Rows) (*entity.MovementEntry, error) {
	var m entity.MovementEntry
	var reason, docType string
	if err := rows.Scan(&m.ID, &m.SKUID, &m.WarehouseID, &m.Quantity, &m.UnitCost, &reason,
		&docType, &m.SourceDocumentID, &m.TxRef, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	m.Reason = entity.MovementReason(reason)
	m.SourceDocumentType = entity.DocumentType(docType)
	return &m, nil
}
