package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo cabeceras y líneas de documentos sobre PostgreSQL.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, type, return_kind, status, counterparty_id, warehouse_id, to_warehouse_id,
	source_document_id, account_id, amount, remark, created_at, updated_at,
	confirmed_at, fulfilled_at, cancelled_at`

// Create inserta la cabecera y sus líneas. Asigna IDs y numera las líneas desde 1.
// Llamar dentro de una tx para que cabecera y líneas queden juntas.
func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	query := `
		INSERT INTO documents (type, return_kind, status, counterparty_id, warehouse_id, to_warehouse_id,
			source_document_id, account_id, amount, remark, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11, now()), COALESCE($11, now()))
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		string(d.Type), int(d.ReturnKind), string(d.Status), d.CounterpartyID, d.WarehouseID, d.ToWarehouseID,
		d.SourceDocumentID, d.AccountID, d.Amount, d.Remark, nullTime(d.CreatedAt),
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	for i := range d.Lines {
		line := &d.Lines[i]
		line.DocumentID = d.ID
		line.LineNo = i + 1
		if err := r.q.QueryRow(ctx, `
			INSERT INTO document_lines (document_id, line_no, sku_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			line.DocumentID, line.LineNo, line.SKUID, line.Quantity, line.UnitPrice,
		).Scan(&line.ID); err != nil {
			return fmt.Errorf("insert document line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el documento con sus líneas. Devuelve nil si no existe.
func (r *DocumentRepo) GetByID(ctx context.Context, id int64) (*entity.Document, error) {
	return r.get(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la cabecera hasta el fin de la tx.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Document, error) {
	return r.get(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1 FOR UPDATE`, id)
}

func (r *DocumentRepo) get(ctx context.Context, query string, id int64) (*entity.Document, error) {
	var d entity.Document
	var docType, status string
	var returnKind int
	err := r.q.QueryRow(ctx, query, id).Scan(
		&d.ID, &docType, &returnKind, &status, &d.CounterpartyID, &d.WarehouseID, &d.ToWarehouseID,
		&d.SourceDocumentID, &d.AccountID, &d.Amount, &d.Remark, &d.CreatedAt, &d.UpdatedAt,
		&d.ConfirmedAt, &d.FulfilledAt, &d.CancelledAt,
	)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	d.Type = entity.DocumentType(docType)
	d.Status = entity.DocumentStatus(status)
	d.ReturnKind = entity.ReturnKind(returnKind)

	rows, err := r.q.Query(ctx, `
		SELECT id, document_id, line_no, sku_id, quantity, unit_price
		FROM document_lines WHERE document_id = $1 ORDER BY line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.LineNo, &l.SKUID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		d.Lines = append(d.Lines, l)
	}
	return &d, rows.Err()
}

// Update persiste los campos de cabecera. Las líneas son inmutables.
func (r *DocumentRepo) Update(ctx context.Context, d *entity.Document) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE documents SET status = $2, account_id = $3, amount = $4, updated_at = $5,
			confirmed_at = $6, fulfilled_at = $7, cancelled_at = $8
		WHERE id = $1`,
		d.ID, string(d.Status), d.AccountID, d.Amount, d.UpdatedAt,
		d.ConfirmedAt, d.FulfilledAt, d.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
