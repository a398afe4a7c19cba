package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
)

var _ repository.FinancialRecordRepository = (*FinancialRecordRepo)(nil)

// FinancialRecordRepo recibos y pagos sobre PostgreSQL.
type FinancialRecordRepo struct {
	q Querier
}

func NewFinancialRecordRepository(q Querier) *FinancialRecordRepo {
	return &FinancialRecordRepo{q: q}
}

const financialColumns = `id, account_type, direction, amount, allocated, status, related_document_id,
	created_at, updated_at`

func (r *FinancialRecordRepo) Create(ctx context.Context, f *entity.FinancialRecord) error {
	if err := r.q.QueryRow(ctx, `
		INSERT INTO financial_records (account_type, direction, amount, allocated, status, related_document_id,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()), COALESCE($7, now()))
		RETURNING id, created_at, updated_at`,
		int(f.AccountType), f.Direction, f.Amount, f.Allocated, f.Status, f.RelatedDocumentID, nullTime(f.CreatedAt),
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return fmt.Errorf("insert financial record: %w", err)
	}
	return nil
}

func (r *FinancialRecordRepo) GetByID(ctx context.Context, id int64) (*entity.FinancialRecord, error) {
	return r.get(ctx, `SELECT `+financialColumns+` FROM financial_records WHERE id = $1`, id)
}

func (r *FinancialRecordRepo) GetForUpdate(ctx context.Context, id int64) (*entity.FinancialRecord, error) {
	return r.get(ctx, `SELECT `+financialColumns+` FROM financial_records WHERE id = $1 FOR UPDATE`, id)
}

func (r *FinancialRecordRepo) get(ctx context.Context, query string, id int64) (*entity.FinancialRecord, error) {
	rows, err := r.q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get financial record: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanFinancial(rows)
}

func (r *FinancialRecordRepo) Update(ctx context.Context, f *entity.FinancialRecord) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE financial_records SET allocated = $2, status = $3, updated_at = $4 WHERE id = $1`,
		f.ID, f.Allocated, f.Status, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update financial record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FinancialRecordRepo) List(ctx context.Context) ([]*entity.FinancialRecord, error) {
	rows, err := r.q.Query(ctx, `SELECT `+financialColumns+` FROM financial_records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list financial records: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.FinancialRecord, 0)
	for rows.Next() {
		f, err := scanFinancial(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

func scanFinancial(rows pgx.Rows) (*entity.FinancialRecord, error) {
	var f entity.FinancialRecord
	var accType int
	if err := rows.Scan(&f.ID, &accType, &f.Direction, &f.Amount, &f.Allocated, &f.Status,
		&f.RelatedDocumentID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scan financial record: %w", err)
	}
	f.AccountType = entity.AccountType(accType)
	return &f, nil
}

var _ repository.SettlementRepository = (*SettlementRepo)(nil)

// SettlementRepo liquidaciones (solo INSERT) sobre PostgreSQL.
type SettlementRepo struct {
	q Querier
}

func NewSettlementRepository(q Querier) *SettlementRepo {
	return &SettlementRepo{q: q}
}

func (r *SettlementRepo) Create(ctx context.Context, e *entity.SettlementEntry) error {
	if err := r.q.QueryRow(ctx, `
		INSERT INTO settlements (account_type, account_id, financial_id, settlement_amount, settlement_date,
			remark, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()))
		RETURNING id, created_at`,
		int(e.AccountType), e.AccountID, e.FinancialID, e.SettlementAmount, e.SettlementDate, e.Remark,
		nullTime(e.CreatedAt),
	).Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("insert settlement: %w", err)
	}
	return nil
}

func (r *SettlementRepo) ListByAccount(ctx context.Context, accountID int64) ([]*entity.SettlementEntry, error) {
	return r.list(ctx, `WHERE account_id = $1`, accountID)
}

func (r *SettlementRepo) ListByFinancial(ctx context.Context, financialID int64) ([]*entity.SettlementEntry, error) {
	return r.list(ctx, `WHERE financial_id = $1`, financialID)
}

func (r *SettlementRepo) list(ctx context.Context, where string, id int64) ([]*entity.SettlementEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, account_type, account_id, financial_id, settlement_amount, settlement_date, remark, created_at
		FROM settlements `+where+` ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.SettlementEntry, 0)
	for rows.Next() {
		var e entity.SettlementEntry
		var accType int
		if err := rows.Scan(&e.ID, &accType, &e.AccountID, &e.FinancialID, &e.SettlementAmount,
			&e.SettlementDate, &e.Remark, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		e.AccountType = entity.AccountType(accType)
		list = append(list, &e)
	}
	return list, rows.Err()
}
