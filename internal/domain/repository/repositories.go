package repository

// Repositories agrupa los puertos atados a una misma conexión o transacción.
type Repositories struct {
	Products       ProductRepository
	Warehouses     WarehouseRepository
	Counterparties CounterpartyRepository
	Movements      MovementRepository
	Stock          StockRepository
	Documents      DocumentRepository
	Accounts       AccountRepository
	Financials     FinancialRecordRepository
	Settlements    SettlementRepository
	Halts          HaltRepository
}
