package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo cuentas por cobrar/pagar y sus ajustes sobre PostgreSQL.
type AccountRepo struct {
	q Querier
}

func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

const accountColumns = `id, type, counterparty_id, document_type, document_id, amount, adjusted, settled,
	status, created_at, updated_at`

func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO accounts (type, counterparty_id, document_type, document_id, amount, adjusted, settled,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, now()), COALESCE($9, now()))
		RETURNING id, created_at, updated_at`
	if err := r.q.QueryRow(ctx, query,
		int(a.Type), a.CounterpartyID, string(a.DocumentType), a.DocumentID, a.Amount, a.Adjusted, a.Settled,
		a.Status, nullTime(a.CreatedAt),
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id int64) (*entity.Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la cuenta (SELECT FOR UPDATE).
func (r *AccountRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)
}

func (r *AccountRepo) get(ctx context.Context, query string, id int64) (*entity.Account, error) {
	rows, err := r.q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanAccount(rows)
}

func (r *AccountRepo) Update(ctx context.Context, a *entity.Account) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE accounts SET adjusted = $2, settled = $3, status = $4, updated_at = $5
		WHERE id = $1`,
		a.ID, a.Adjusted, a.Settled, a.Status, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List ordena por fecha de creación e ID (las más antiguas primero).
func (r *AccountRepo) List(ctx context.Context, f repository.AccountFilter) ([]*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE ($1::smallint = 0 OR type = $1)
		  AND ($2::bigint = 0 OR counterparty_id = $2)
		  AND (NOT $3::boolean OR status = $4)
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, int(f.Type), f.CounterpartyID, f.OnlyOpen, entity.AccountOpen)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AccountRepo) AddAdjustment(ctx context.Context, adj *entity.AccountAdjustment) error {
	if err := r.q.QueryRow(ctx, `
		INSERT INTO account_adjustments (account_id, document_id, amount, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
		RETURNING id, created_at`,
		adj.AccountID, adj.DocumentID, adj.Amount, nullTime(adj.CreatedAt),
	).Scan(&adj.ID, &adj.CreatedAt); err != nil {
		return fmt.Errorf("insert adjustment: %w", err)
	}
	return nil
}

func (r *AccountRepo) ListAdjustmentsByDocument(ctx context.Context, documentID int64) ([]*entity.AccountAdjustment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, account_id, document_id, amount, created_at
		FROM account_adjustments WHERE document_id = $1 ORDER BY id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.AccountAdjustment, 0)
	for rows.Next() {
		var adj entity.AccountAdjustment
		if err := rows.Scan(&adj.ID, &adj.AccountID, &adj.DocumentID, &adj.Amount, &adj.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, &adj)
	}
	return list, rows.Err()
}

func scanAccount(rows pgx.Rows) (*entity.Account, error) {
	var a entity.Account
	var accType int
	var docType string
	if err := rows.Scan(&a.ID, &accType, &a.CounterpartyID, &docType, &a.DocumentID, &a.Amount, &a.Adjusted,
		&a.Settled, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.Type = entity.AccountType(accType)
	a.DocumentType = entity.DocumentType(docType)
	return &a, nil
}
