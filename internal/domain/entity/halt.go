package entity

import (
	"fmt"
	"time"
)

// HaltScope ámbito de una detención por inconsistencia.
type HaltScope string

const (
	HaltStock     HaltScope = "stock"     // par (SKU, bodega)
	HaltAccount   HaltScope = "account"   // cuenta por cobrar/pagar
	HaltFinancial HaltScope = "financial" // recibo o pago
)

// HaltKey identifica lo detenido. En stock SubjectID es el SKU y WarehouseID la bodega;
// en cuentas y registros financieros WarehouseID es 0.
type HaltKey struct {
	Scope       HaltScope
	SubjectID   int64
	WarehouseID int64
}

// StockHalt clave de detención de un par.
func StockHalt(k StockKey) HaltKey {
	return HaltKey{Scope: HaltStock, SubjectID: k.SKUID, WarehouseID: k.WarehouseID}
}

// AccountHalt clave de detención de una cuenta.
func AccountHalt(id int64) HaltKey { return HaltKey{Scope: HaltAccount, SubjectID: id} }

// FinancialHalt clave de detención de un registro financiero.
func FinancialHalt(id int64) HaltKey { return HaltKey{Scope: HaltFinancial, SubjectID: id} }

// Halt detención persistida: la comparten todos los procesos sobre la misma base y solo la
// levanta un replay del operador (Rebuild o Reconcile).
type Halt struct {
	Scope       HaltScope
	SubjectID   int64
	WarehouseID int64
	Reason      string
	CreatedAt   time.Time
}

// Key devuelve la clave de la detención.
func (h Halt) Key() HaltKey {
	return HaltKey{Scope: h.Scope, SubjectID: h.SubjectID, WarehouseID: h.WarehouseID}
}

func (k HaltKey) String() string {
	if k.Scope == HaltStock {
		return fmt.Sprintf("sku %d bodega %d", k.SubjectID, k.WarehouseID)
	}
	return fmt.Sprintf("%s %d", k.Scope, k.SubjectID)
}
