package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrOverSettlement      = errors.New("el monto excede el saldo pendiente o el saldo sin asignar")
	ErrInvalidTransition   = errors.New("transición de estado no permitida")
	ErrReservationNotFound = errors.New("reserva inexistente o expirada")

	// ErrConsistencyFault: el saldo almacenado diverge del libro de movimientos (o de las
	// liquidaciones). La clave afectada queda bloqueada hasta un replay del operador.
	ErrConsistencyFault = errors.New("inconsistencia entre libro y saldos")
)
