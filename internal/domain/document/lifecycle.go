// Package document contiene las reglas puras del ciclo de vida de documentos:
// transiciones permitidas y efectos (motivo de movimiento, dirección y lado de cuenta) por tipo.
package document

import (
	"fmt"

	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// Transition nombre de una transición del ciclo de vida.
type Transition string

const (
	TransitionConfirm Transition = "confirm"
	TransitionFulfill Transition = "fulfill"
	TransitionCancel  Transition = "cancel"
)

var transitions = map[entity.DocumentStatus]map[Transition]entity.DocumentStatus{
	entity.StatusDraft: {
		TransitionConfirm: entity.StatusConfirmed,
		TransitionCancel:  entity.StatusCancelled,
	},
	entity.StatusConfirmed: {
		TransitionFulfill: entity.StatusFulfilled,
		TransitionCancel:  entity.StatusCancelled,
	},
}

// Next devuelve el estado destino o ErrInvalidTransition. fulfilled y cancelled son terminales.
func Next(from entity.DocumentStatus, t Transition) (entity.DocumentStatus, error) {
	if to, ok := transitions[from][t]; ok {
		return to, nil
	}
	return "", fmt.Errorf("%w: %s desde %s", domain.ErrInvalidTransition, t, from)
}

// Terminal indica si el estado no admite más transiciones.
func Terminal(s entity.DocumentStatus) bool {
	return len(transitions[s]) == 0
}

// Direction sentido del efecto de stock de un documento.
type Direction int

const (
	Inbound Direction = iota
	Outbound
	Both    // traslado: salida en origen + entrada en destino
	Counted // toma física: el signo depende del conteo
)

// Traits efectos de un tipo de documento.
type Traits struct {
	Direction   Direction
	Reason      entity.MovementReason // motivo principal (salida en traslados)
	Account     entity.AccountType    // 0 si el documento no registra cuenta
	Counterpart string                // tipo de contraparte requerida ("" si no aplica)
}

// TraitsOf devuelve los efectos del documento según su tipo (y ReturnKind en devoluciones).
func TraitsOf(d *entity.Document) Traits {
	switch d.Type {
	case entity.DocumentPurchase:
		return Traits{Direction: Inbound, Reason: entity.ReasonPurchaseReceipt, Account: entity.AccountPayable, Counterpart: entity.CounterpartySupplier}
	case entity.DocumentSale:
		return Traits{Direction: Outbound, Reason: entity.ReasonSaleShipment, Account: entity.AccountReceivable, Counterpart: entity.CounterpartyCustomer}
	case entity.DocumentReturn:
		if d.ReturnKind == entity.ReturnPurchase {
			// Devolución al proveedor: sale mercancía y se reduce lo que se le debe.
			return Traits{Direction: Outbound, Reason: entity.ReasonReturnOut, Account: entity.AccountPayable, Counterpart: entity.CounterpartySupplier}
		}
		return Traits{Direction: Inbound, Reason: entity.ReasonReturnIn, Account: entity.AccountReceivable, Counterpart: entity.CounterpartyCustomer}
	case entity.DocumentTransfer:
		return Traits{Direction: Both, Reason: entity.ReasonTransferOut}
	case entity.DocumentTake:
		return Traits{Direction: Counted, Reason: entity.ReasonTakeAdjustment}
	}
	return Traits{}
}
