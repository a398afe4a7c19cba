package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-erp/internal/domain/repository"
)

// Querier es el subconjunto común de *pgxpool.Pool y pgx.Tx. Los repositorios lo reciben
// para funcionar igual dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewRepositories arma el juego completo de repositorios sobre q.
func NewRepositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Products:       NewProductRepository(q),
		Warehouses:     NewWarehouseRepository(q),
		Counterparties: NewCounterpartyRepository(q),
		Movements:      NewMovementRepository(q),
		Stock:          NewStockRepository(q),
		Documents:      NewDocumentRepository(q),
		Accounts:       NewAccountRepository(q),
		Financials:     NewFinancialRecordRepository(q),
		Settlements:    NewSettlementRepository(q),
		Halts:          NewHaltRepository(q),
	}
}
