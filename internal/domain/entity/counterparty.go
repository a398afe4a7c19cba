package entity

import "time"

// Tipos de contraparte.
const (
	CounterpartyCustomer = "customer"
	CounterpartySupplier = "supplier"
)

// Counterparty cliente o proveedor referenciado por los documentos.
type Counterparty struct {
	ID        int64
	Kind      string
	Name      string
	TaxID     string
	CreatedAt time.Time
}
